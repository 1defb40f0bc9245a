package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/internal/service"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

type stubEncrypter struct {
	err error
}

func (s stubEncrypter) Encrypt(subjectID string, role domain.Role) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return string(role) + ":" + subjectID, fixedNow.Add(time.Hour), nil
}

func (f *fixture) sessionService(encrypter service.Encrypter) *service.SessionService {
	return service.NewSessionService(f.accounts(), encrypter, 4, nil, f.clock)
}

func TestRegisterCustomer(t *testing.T) {
	f := newFixture()
	customers := f.customerService()
	ctx := context.Background()

	customer, err := customers.RegisterCustomer(ctx, service.RegisterCustomerInput{
		Name:     "Ana",
		Email:    " ana@example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Email("ana@example.com"), customer.Email)
	assert.True(t, customer.Password().Matches("secret1"))

	_, err = customers.RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyTaken)
	_, err = customers.RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Bob", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = customers.RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Bob", Email: "bob@example.com", Password: "123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = customers.RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "", Email: "bob@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEmailIsUniqueAcrossAccountKinds(t *testing.T) {
	f := newFixture()
	f.seedTechnician(t, "shared@example.com")

	_, err := f.customerService().RegisterCustomer(context.Background(), service.RegisterCustomerInput{
		Name:     "Ana",
		Email:    "shared@example.com",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyTaken)

	_, err = f.technicianService().CreateTechnician(context.Background(), adminActor, service.CreateTechnicianInput{
		Name:     "Again",
		Email:    "shared@example.com",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyTaken)
}

func TestSoftDeleteCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customers := f.customerService()
	customer, err := customers.RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	self := domain.Actor{ID: customer.ID, Role: domain.RoleCustomer}

	assert.ErrorIs(t, customers.SoftDeleteCustomer(ctx, customerActor, customer.ID), apperrors.ErrNotAllowed)
	assert.ErrorIs(t, customers.SoftDeleteCustomer(ctx, domain.Actor{ID: "t", Role: domain.RoleTechnician}, customer.ID), apperrors.ErrNotAllowed)
	assert.ErrorIs(t, customers.SoftDeleteCustomer(ctx, adminActor, "missing"), apperrors.ErrNotFound)

	require.NoError(t, customers.SoftDeleteCustomer(ctx, self, customer.ID))
	stored, err := f.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted())

	assert.ErrorIs(t, customers.SoftDeleteCustomer(ctx, adminActor, customer.ID), apperrors.ErrAlreadyDeleted)
}

func TestSoftDeleteCustomer_UnpaidBillings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customers := f.customerService()
	_, err := customers.RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	// customerActor owns the ticket created by the fixture
	fx := openAssignedTicket(t, f)
	require.NoError(t, f.customers.Create(ctx, &domain.Customer{
		Entity: domain.Entity{ID: customerActor.ID},
		Name:   "Fixture",
		Email:  "fixture@example.com",
	}))

	err = customers.SoftDeleteCustomer(ctx, adminActor, customerActor.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnpaidBillings)

	_, err = f.billingService().SettleBilling(ctx, adminActor, fx.ticket.ID)
	require.NoError(t, err)
	assert.NoError(t, customers.SoftDeleteCustomer(ctx, adminActor, customerActor.ID))
}

func TestTechnicianLifecycle(t *testing.T) {
	f := newFixture()
	technicians := f.technicianService()
	ctx := context.Background()

	_, err := technicians.CreateTechnician(ctx, customerActor, service.CreateTechnicianInput{Email: "t@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrNotAllowed)

	_, err = technicians.CreateTechnician(ctx, adminActor, service.CreateTechnicianInput{
		Name:         "Tech",
		Email:        "t@example.com",
		Password:     "secret1",
		Availability: []domain.WorkScheduleInput{mondaySchedule("08:00", "12:00", "11:00", "18:00")},
	})
	require.NoError(t, err)

	_, err = technicians.CreateTechnician(ctx, adminActor, service.CreateTechnicianInput{
		Name:         "Broken",
		Email:        "broken@example.com",
		Password:     "secret1",
		Availability: []domain.WorkScheduleInput{mondaySchedule("12:00", "08:00", "13:00", "18:00")},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	created := f.seedTechnician(t, "second@example.com", mondaySchedule("08:00", "12:00", "13:00", "18:00"))
	assert.True(t, created.MustUpdatePassword)
	require.Len(t, created.Availability, 1)
	assert.Equal(t, created.ID, created.Availability[0].TechnicianID)

	listed, err := technicians.ListTechnicians(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	_, err = technicians.ListTechnicians(ctx, customerActor)
	assert.ErrorIs(t, err, apperrors.ErrNotAllowed)

	require.NoError(t, technicians.SoftDeleteTechnician(ctx, adminActor, created.ID))
	assert.ErrorIs(t, technicians.SoftDeleteTechnician(ctx, adminActor, created.ID), apperrors.ErrAlreadyDeleted)
	assert.ErrorIs(t, technicians.SoftDeleteTechnician(ctx, adminActor, "missing"), apperrors.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sessions := f.sessionService(stubEncrypter{})

	admin, err := sessions.EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)
	again, err := sessions.EnsureAdmin(ctx, "Root", "root@example.com", "other-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	technician := f.seedTechnician(t, "tech@example.com")
	customer, err := f.customerService().RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	session, err := sessions.Authenticate(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.Role)
	assert.Equal(t, "admin:"+admin.ID, session.Token)

	session, err = sessions.Authenticate(ctx, "tech@example.com", "temporary")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, session.Role)
	assert.True(t, session.MustUpdatePassword)

	session, err = sessions.Authenticate(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, session.Role)
	assert.Equal(t, customer.ID, session.SubjectID)
	assert.Equal(t, fixedNow.Add(time.Hour), session.ExpiresAt)

	_, err = sessions.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = sessions.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, f.technicianService().SoftDeleteTechnician(ctx, adminActor, technician.ID))
	_, err = sessions.Authenticate(ctx, "tech@example.com", "temporary")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthenticate_EncrypterFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.sessionService(stubEncrypter{}).EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)

	_, err = f.sessionService(stubEncrypter{err: errors.New("signing failed")}).Authenticate(ctx, "root@example.com", "rootpass")
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, apperrors.CodeInternal, domainErr.Code)
}

func TestEnsureAdmin_RejectsEmailOfAnotherAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sessions := f.sessionService(stubEncrypter{})

	_, err := f.customerService().RegisterCustomer(ctx, service.RegisterCustomerInput{Name: "Ana", Email: "root@example.com", Password: "secret1"})
	require.NoError(t, err)
	f.seedTechnician(t, "tech@example.com")

	_, err = sessions.EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyTaken)
	_, err = sessions.EnsureAdmin(ctx, "Root", "tech@example.com", "rootpass")
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyTaken)

	_, err = f.admins.GetByEmail(ctx, "root@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVerifyActor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sessions := f.sessionService(stubEncrypter{})
	admin, err := sessions.EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)
	technician := f.seedTechnician(t, "tech@example.com")

	assert.NoError(t, sessions.VerifyActor(ctx, domain.Actor{ID: admin.ID, Role: domain.RoleAdmin}))
	assert.NoError(t, sessions.VerifyActor(ctx, technicianActor(technician)))
	assert.ErrorIs(t, sessions.VerifyActor(ctx, customerActor), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, sessions.VerifyActor(ctx, domain.Actor{ID: admin.ID, Role: domain.RoleTechnician}), apperrors.ErrUnauthorized)

	require.NoError(t, f.technicianService().SoftDeleteTechnician(ctx, adminActor, technician.ID))
	assert.ErrorIs(t, sessions.VerifyActor(ctx, technicianActor(technician)), apperrors.ErrUnauthorized)
}
