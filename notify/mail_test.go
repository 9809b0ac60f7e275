package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailerRequiresRecipients(t *testing.T) {
	m := NewMailer("127.0.0.1", 1, "robot@example.com", "secret", "")
	assert.Equal(t, "robot@example.com", m.from)
	assert.ErrorIs(t, m.Send(nil, "subject", "<p>body</p>"), ErrNoRecipients)
}

func TestMailerUnreachable(t *testing.T) {
	m := NewMailer("127.0.0.1", 1, "", "", "robot@example.com")
	assert.Error(t, m.Send([]string{"ops@example.com"}, "subject", "<p>body</p>"))
}

func TestDiscard(t *testing.T) {
	var n Notifier = Discard{}
	assert.NoError(t, n.Send([]string{"ops@example.com"}, "subject", "body"))
}
