package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository/memory"
	"github.com/spec-kit/servicedesk/internal/service"
)

// Monday morning.
var fixedNow = time.Date(2024, time.June, 3, 9, 30, 0, 0, time.UTC)

var (
	adminActor    = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	customerActor = domain.Actor{ID: "customer-1", Role: domain.RoleCustomer}
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]events.EventType, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

type fixture struct {
	categories   *memory.CategoryRepository
	services     *memory.ServiceRepository
	technicians  *memory.TechnicianRepository
	customers    *memory.CustomerRepository
	admins       *memory.AdminRepository
	tickets      *memory.TicketRepository
	interactions *memory.InteractionRepository
	billings     *memory.BillingRepository
	dispatcher   events.Dispatcher
	recorded     *recorder
	now          time.Time
}

func newFixture() *fixture {
	f := &fixture{
		categories:   memory.NewCategoryRepository(),
		services:     memory.NewServiceRepository(),
		technicians:  memory.NewTechnicianRepository(),
		customers:    memory.NewCustomerRepository(),
		admins:       memory.NewAdminRepository(),
		tickets:      memory.NewTicketRepository(),
		interactions: memory.NewInteractionRepository(),
		billings:     memory.NewBillingRepository(),
		dispatcher:   events.NewInMemoryDispatcher(),
		recorded:     &recorder{},
		now:          fixedNow,
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
		events.EventBillingStatusChanged,
	} {
		f.dispatcher.Subscribe(eventType, f.recorded.handle)
	}
	return f
}

func (f *fixture) clock() time.Time {
	return f.now
}

func (f *fixture) accounts() service.Accounts {
	return service.Accounts{Admins: f.admins, Technicians: f.technicians, Customers: f.customers}
}

func (f *fixture) ticketService(random service.RandomSource) *service.TicketService {
	return service.NewTicketService(service.TicketDependencies{
		CategoryRepo:    f.categories,
		ServiceRepo:     f.services,
		TechnicianRepo:  f.technicians,
		TicketRepo:      f.tickets,
		InteractionRepo: f.interactions,
		BillingRepo:     f.billings,
		Dispatcher:      f.dispatcher,
		Clock:           f.clock,
		Random:          random,
		Location:        time.UTC,
	})
}

func (f *fixture) catalogService() *service.CatalogService {
	return service.NewCatalogService(f.categories, f.services, nil, f.clock)
}

func (f *fixture) billingService() *service.BillingService {
	return service.NewBillingService(f.billings, f.dispatcher, nil, f.clock)
}

func (f *fixture) customerService() *service.CustomerService {
	return service.NewCustomerService(service.CustomerDependencies{
		Accounts:    f.accounts(),
		TicketRepo:  f.tickets,
		BillingRepo: f.billings,
		BcryptCost:  4,
		Clock:       f.clock,
	})
}

func (f *fixture) technicianService() *service.TechnicianService {
	return service.NewTechnicianService(service.TechnicianDependencies{Accounts: f.accounts(), BcryptCost: 4, Clock: f.clock})
}

// seedCatalog creates one category with the given prices as services.
func (f *fixture) seedCatalog(t *testing.T, prices ...string) (*domain.Category, []*domain.Service) {
	t.Helper()
	ctx := context.Background()
	catalog := f.catalogService()
	category, err := catalog.CreateCategory(ctx, adminActor, "Smartphones")
	require.NoError(t, err)
	services := make([]*domain.Service, 0, len(prices))
	for i, price := range prices {
		svc, err := catalog.CreateService(ctx, adminActor, domain.ServiceDetails{
			CategoryID: category.ID,
			Name:       "service " + string(rune('A'+i)),
			Price:      price,
		})
		require.NoError(t, err)
		services = append(services, svc)
	}
	return category, services
}

func mondaySchedule(beforeStart, beforeEnd, afterStart, afterEnd string) domain.WorkScheduleInput {
	return domain.WorkScheduleInput{
		Weekday:          "Monday",
		BeforeLunchStart: beforeStart,
		BeforeLunchEnd:   beforeEnd,
		AfterLunchStart:  afterStart,
		AfterLunchEnd:    afterEnd,
	}
}

func (f *fixture) seedTechnician(t *testing.T, email string, schedules ...domain.WorkScheduleInput) *domain.Technician {
	t.Helper()
	technician, err := f.technicianService().CreateTechnician(context.Background(), adminActor, service.CreateTechnicianInput{
		Name:         "Tech " + email,
		Email:        email,
		Password:     "temporary",
		Availability: schedules,
	})
	require.NoError(t, err)
	return technician
}

func serviceIDs(services []*domain.Service) []string {
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	return ids
}

func technicianActor(technician *domain.Technician) domain.Actor {
	return domain.Actor{ID: technician.ID, Role: domain.RoleTechnician}
}
