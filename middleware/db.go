package middleware

import (
	"outward-wms/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InjectDBMiddleware resolves the company database of the request and stores it in
// the request locals.
func InjectDBMiddleware(c *fiber.Ctx) error {
	dbName, ok := c.Locals(LocalCompany).(string)
	if !ok || dbName == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "database name not found in context")
	}

	db, err := database.GetDBConnection(dbName)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "error connecting to database")
	}

	c.Locals(LocalDB, db.WithContext(c.UserContext()))
	return c.Next()
}

// DB returns the company database stored by InjectDBMiddleware.
func DB(c *fiber.Ctx) *gorm.DB {
	db, _ := c.Locals(LocalDB).(*gorm.DB)
	return db
}

func Company(c *fiber.Ctx) string {
	company, _ := c.Locals(LocalCompany).(string)
	return company
}

func UserID(c *fiber.Ctx) int {
	id, _ := c.Locals(LocalUserID).(int)
	return id
}
