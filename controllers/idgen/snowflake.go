package idgen

import (
	"log"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets the node number of this process. Without it the first id uses node 1.
func Init(nodeID int64) {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			log.Fatalf("Failed to init Snowflake: %v", err)
		}
	})
}

func GenerateID() int64 {
	Init(1)
	return node.Generate().Int64()
}

// GenerateString returns a new id in its decimal string form, used for article ids.
func GenerateString() string {
	Init(1)
	return node.Generate().String()
}
