// Package testing provides test utilities and database setup for testing the case management system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every fixture user's password hash
const TestPassword = "TestPass123!"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user with the given role
func (tf *TestFixtures) CreateTestUser(rol string) (*models.AppUser, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(100000000)

	user := &models.AppUser{
		DisplayName:  fmt.Sprintf("Usuario %s %d", rol, suffix),
		Email:        fmt.Sprintf("%s.%d@example.com", rol, suffix),
		PasswordHash: string(hashedPassword),
		Rol:          rol,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// TestCatalogos bundles one entry per catalog kind
type TestCatalogos struct {
	Clase     *models.Catalogo
	Estado    *models.Catalogo
	Origen    *models.Catalogo
	Despacho  *models.Catalogo
	Ubicacion *models.Catalogo
}

// CreateTestCatalogos creates one active entry per catalog kind. The origin
// name matches a built-in prefix so internal docket numbering kicks in.
func (tf *TestFixtures) CreateTestCatalogos() (*TestCatalogos, error) {
	return tf.CreateTestCatalogosWithOrigin("Juzgado 03 Civil del Circuito")
}

// CreateTestCatalogosWithOrigin creates the catalog set with a specific origin name
func (tf *TestFixtures) CreateTestCatalogosWithOrigin(origenNombre string) (*TestCatalogos, error) {
	suffix := rand.Intn(100000000)

	entries := map[string]*models.Catalogo{
		models.CatalogoClase:     {Kind: models.CatalogoClase, Nombre: fmt.Sprintf("EJECUTIVO %d", suffix)},
		models.CatalogoEstado:    {Kind: models.CatalogoEstado, Nombre: fmt.Sprintf("ACTIVO %d", suffix)},
		models.CatalogoOrigen:    {Kind: models.CatalogoOrigen, Nombre: origenNombre},
		models.CatalogoDespacho:  {Kind: models.CatalogoDespacho, Nombre: fmt.Sprintf("DESPACHO %d", suffix)},
		models.CatalogoUbicacion: {Kind: models.CatalogoUbicacion, Nombre: fmt.Sprintf("ARCHIVO %d", suffix)},
	}

	for kind, entry := range entries {
		entry.Activo = utils.ToPtr(true)
		if err := tf.DB.DB.Where("kind = ? AND nombre = ?", entry.Kind, entry.Nombre).
			FirstOrCreate(entry).Error; err != nil {
			return nil, fmt.Errorf("failed to create %s catalog entry: %w", kind, err)
		}
	}

	return &TestCatalogos{
		Clase:     entries[models.CatalogoClase],
		Estado:    entries[models.CatalogoEstado],
		Origen:    entries[models.CatalogoOrigen],
		Despacho:  entries[models.CatalogoDespacho],
		Ubicacion: entries[models.CatalogoUbicacion],
	}, nil
}

// CreateTestExpediente creates a case with a synthetic filing number,
// assigned to and created by the given user.
func (tf *TestFixtures) CreateTestExpediente(catalogos *TestCatalogos, responsable *models.AppUser, prioridad string) (*models.Expediente, error) {
	suffix := rand.Intn(100000)
	year := time.Now().UTC().Year()

	expediente := &models.Expediente{
		RadicacionUnica:   fmt.Sprintf("11001-31-03-001-%d-%05d-00", year, suffix),
		ClaseID:           catalogos.Clase.ID,
		EstadoID:          catalogos.Estado.ID,
		OrigenID:          catalogos.Origen.ID,
		DespachoID:        catalogos.Despacho.ID,
		UbicacionID:       catalogos.Ubicacion.ID,
		Demandante:        utils.ToPtr("BANCO DE PRUEBA S.A."),
		Demandado:         utils.ToPtr(fmt.Sprintf("DEUDOR %d", suffix)),
		Prioridad:         prioridad,
		ResponsableUserID: responsable.ID,
		CreadoPorID:       responsable.ID,
		ModificadoPorID:   responsable.ID,
	}

	if err := tf.DB.DB.Create(expediente).Error; err != nil {
		return nil, fmt.Errorf("failed to create test expediente: %w", err)
	}

	return expediente, nil
}

// CreateTestExpedienteCreatedAt backdates a case's creation timestamp, which
// drives the SLA and inactivity evaluators.
func (tf *TestFixtures) CreateTestExpedienteCreatedAt(catalogos *TestCatalogos, responsable *models.AppUser, prioridad string, createdAt time.Time) (*models.Expediente, error) {
	expediente, err := tf.CreateTestExpediente(catalogos, responsable, prioridad)
	if err != nil {
		return nil, err
	}

	if err := tf.DB.DB.Model(expediente).
		UpdateColumns(map[string]any{"created_at": createdAt, "updated_at": createdAt}).Error; err != nil {
		return nil, fmt.Errorf("failed to backdate test expediente: %w", err)
	}
	expediente.CreatedAt = createdAt

	return expediente, nil
}

// CreateTestActuacion logs an entry against a case at the given date
func (tf *TestFixtures) CreateTestActuacion(expedienteID, usuarioID uint, fecha time.Time) (*models.Actuacion, error) {
	actuacion := &models.Actuacion{
		ExpedienteID: expedienteID,
		Fecha:        fecha,
		Anotacion:    "Se radica memorial de prueba",
		UsuarioID:    usuarioID,
	}

	if err := tf.DB.DB.Create(actuacion).Error; err != nil {
		return nil, fmt.Errorf("failed to create test actuacion: %w", err)
	}

	return actuacion, nil
}

// CreateTestNotificacion creates an unread notification for a user
func (tf *TestFixtures) CreateTestNotificacion(userID, expedienteID uint, tipo string) (*models.Notificacion, error) {
	notificacion := &models.Notificacion{
		UserID:       userID,
		ExpedienteID: expedienteID,
		Tipo:         tipo,
		Titulo:       "Notificación de prueba",
		Mensaje:      "Mensaje de prueba",
		Leida:        utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(notificacion).Error; err != nil {
		return nil, fmt.Errorf("failed to create test notification: %w", err)
	}

	return notificacion, nil
}
