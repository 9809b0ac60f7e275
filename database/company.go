package database

import (
	"errors"
	"fmt"
	"outward-wms/config"
	"outward-wms/migration"
	"outward-wms/models"
	"regexp"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

var ErrUnsupportedDriver = errors.New("unsupported DB_DRIVER")

var validDBName = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var (
	dbPool  = make(map[string]*gorm.DB)
	dbMutex sync.Mutex
)

func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// GetDBConnection returns the pooled connection of a company database, opening it on
// first use.
func GetDBConnection(dbName string) (*gorm.DB, error) {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if db, exists := dbPool[dbName]; exists {
		return db, nil
	}

	_, dialector, err := getDSNAndDialector(dbName)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, err
	}

	dbPool[dbName] = db
	return db, nil
}

// RegisterConnection puts an already opened connection into the pool.
func RegisterConnection(dbName string, db *gorm.DB) {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	dbPool[dbName] = db
}

// ActiveConnections lists the pooled database names.
func ActiveConnections() []string {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	names := make([]string, 0, len(dbPool))
	for name := range dbPool {
		names = append(names, name)
	}
	return names
}

// OpenMasterConnection returns the company registry database.
func OpenMasterConnection() (*gorm.DB, error) {
	return GetDBConnection(config.DBMaster)
}

func getDSNAndDialector(dbName string) (string, gorm.Dialector, error) {
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return dsn, postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, sqlserver.Open(dsn), nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.DBDriver)
	}
}

// EnsureDatabaseExists connects to the server without a database and creates dbName
// when it is missing.
func EnsureDatabaseExists(dbName string) error {
	var dialector gorm.Dialector
	switch config.DBDriver {
	case "postgres":
		dialector = postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBPort))
	case "mysql":
		dialector = mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort))
	case "mssql":
		dialector = sqlserver.Open(fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=master",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.DBDriver)
	}

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return fmt.Errorf("connect to db server: %w", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	exists, err := checkDatabaseExists(db, dbName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return db.Exec("CREATE DATABASE " + dbName).Error
}

func checkDatabaseExists(db *gorm.DB, dbName string) (bool, error) {
	var exists bool
	switch config.DBDriver {
	case "postgres":
		err := db.Raw("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = ?)", dbName).Scan(&exists).Error
		return exists, err
	case "mysql":
		var count int64
		err := db.Raw("SELECT COUNT(*) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", dbName).Scan(&count).Error
		return count > 0, err
	case "mssql":
		err := db.Raw(`SELECT IIF(EXISTS (
				SELECT 1 FROM master.sys.databases WHERE name = ?
			), 1, 0) AS exists_flag`, dbName).Scan(&exists).Error
		return exists, err
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.DBDriver)
	}
}

// SetupCompany migrates and seeds a company database that is already reachable.
func SetupCompany(db *gorm.DB) error {
	if err := migration.MigrateCompany(db); err != nil {
		return fmt.Errorf("migrate company: %w", err)
	}
	return RunSeeders(db)
}

type CompanyRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	DB   string `json:"db_name"`
}

func IsValidDBName(name string) bool {
	return validDBName.MatchString(name)
}

// HandlerCompanies serves the company registry endpoints.
type HandlerCompanies struct {
	// Master is nil in production; the registry is then opened from config.
	Master *gorm.DB
	// Provision creates and prepares the database of a new company.
	Provision func(dbName string) error
}

func NewHandlerCompanies() *HandlerCompanies {
	return &HandlerCompanies{Provision: provisionCompany}
}

func provisionCompany(dbName string) error {
	if err := EnsureDatabaseExists(dbName); err != nil {
		return err
	}
	db, err := GetDBConnection(dbName)
	if err != nil {
		return err
	}
	return SetupCompany(db)
}

func (h *HandlerCompanies) master() (*gorm.DB, error) {
	if h.Master != nil {
		return h.Master, nil
	}
	return OpenMasterConnection()
}

func (h *HandlerCompanies) GetAllCompanies(c *fiber.Ctx) error {
	db, err := h.master()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to connect to master DB", "error": err.Error()})
	}

	var companies []models.Company
	if err := db.Order("code").Find(&companies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to retrieve companies", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": companies})
}

func (h *HandlerCompanies) CreateCompany(c *fiber.Ctx) error {
	var req CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body", "error": err.Error()})
	}

	req.Code = strings.TrimSpace(req.Code)
	req.DB = strings.TrimSpace(req.DB)
	if req.DB == "" {
		req.DB = req.Code
	}
	if req.Code == "" || !IsValidDBName(req.DB) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid company code or database name"})
	}

	db, err := h.master()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to connect to master DB", "error": err.Error()})
	}

	var existing models.Company
	if err := db.Where("code = ? OR db_name = ?", req.Code, req.DB).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Company already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to check company", "error": err.Error()})
	}

	if err := h.Provision(req.DB); err != nil {
		zap.L().Error("provision company database failed", zap.String("db", req.DB), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to prepare company database", "error": err.Error()})
	}

	userID, _ := c.Locals("userID").(int)
	company := models.Company{
		Code:      req.Code,
		Name:      req.Name,
		DbName:    req.DB,
		IsActive:  true,
		CreatedBy: userID,
	}
	if err := db.Create(&company).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save company", "error": err.Error()})
	}

	zap.L().Info("company created", zap.String("code", company.Code), zap.String("db", company.DbName))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Company " + company.Code + " created successfully", "data": company})
}
