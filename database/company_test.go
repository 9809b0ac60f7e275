package database_test

import (
	"errors"
	"testing"

	"outward-wms/config"
	"outward-wms/database"
	"outward-wms/migration"
	"outward-wms/models"
	"outward-wms/routes"
	"outward-wms/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companiesEnv(t *testing.T, provision func(string) error) (*testutil.TestEnv, *database.HandlerCompanies) {
	t.Helper()
	master := testutil.OpenDB(t)
	require.NoError(t, migration.Migrate(master))

	handler := &database.HandlerCompanies{Master: master, Provision: provision}
	return testutil.Setup(t, routes.Dependencies{Companies: handler}), handler
}

func TestCreateCompany(t *testing.T) {
	var provisioned []string
	env, handler := companiesEnv(t, func(db string) error {
		provisioned = append(provisioned, db)
		return nil
	})

	resp := env.Do("POST", "/configurations/companies", database.CompanyRequest{Code: "acme", Name: "Acme Corp"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.Company
	testutil.Decode(t, resp, &created)
	assert.Equal(t, "acme", created.DbName)
	assert.Equal(t, testutil.TestUserID, created.CreatedBy)
	assert.Equal(t, []string{"acme"}, provisioned)

	resp = env.Do("POST", "/configurations/companies", database.CompanyRequest{Code: "ACME2", DB: "acme"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = env.Do("POST", "/configurations/companies", database.CompanyRequest{Code: "bad", DB: "bad-name; drop"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, provisioned, 1)

	resp = env.Do("GET", "/configurations/companies", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var companies []models.Company
	testutil.Decode(t, resp, &companies)
	require.Len(t, companies, 1)

	var count int64
	require.NoError(t, handler.Master.Model(&models.Company{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateCompany_ProvisionFailure(t *testing.T) {
	env, handler := companiesEnv(t, func(string) error { return errors.New("no such server") })

	resp := env.Do("POST", "/configurations/companies", database.CompanyRequest{Code: "acme"})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var count int64
	require.NoError(t, handler.Master.Model(&models.Company{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSetupCompanyIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, database.SetupCompany(db))
	require.NoError(t, database.SetupCompany(db))

	var skus, uoms int64
	require.NoError(t, db.Model(&models.Sku{}).Count(&skus).Error)
	require.NoError(t, db.Model(&models.Uom{}).Count(&uoms).Error)
	assert.Equal(t, int64(5), skus)
	assert.Equal(t, int64(7), uoms)
}

func TestIsValidDBName(t *testing.T) {
	assert.True(t, database.IsValidDBName("wms_acme01"))
	assert.False(t, database.IsValidDBName(""))
	assert.False(t, database.IsValidDBName("acme;drop"))
}

func TestUnsupportedDriver(t *testing.T) {
	previous := config.DBDriver
	config.DBDriver = "oracle"
	t.Cleanup(func() { config.DBDriver = previous })

	assert.ErrorIs(t, database.EnsureDatabaseExists("acme"), database.ErrUnsupportedDriver)
	_, err := database.GetDBConnection("never_opened_" + t.Name())
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
