package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/events"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
)

// fakeStore is the shared in-memory backing for all fake repositories. The
// fake transactor snapshots and restores it wholesale, which mirrors what a
// rolled-back database transaction does to the real tables.
type fakeStore struct {
	seq         int
	caseCounter int64

	tickets   map[string]domain.Ticket
	actions   map[string]domain.TicketAction
	loans     map[string]domain.EquipmentLoan
	equipment map[string]domain.Equipment
	companies map[string]domain.Company
	branches  map[string]domain.Branch
	locations map[string]domain.Location
	contacts  map[string]domain.Contact
	addresses map[string]domain.Address
	countries map[string]domain.Country
	regions   map[string]domain.Region
	provinces map[string]domain.Province
	comunas   map[string]domain.Comuna
	users     map[string]domain.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tickets:   map[string]domain.Ticket{},
		actions:   map[string]domain.TicketAction{},
		loans:     map[string]domain.EquipmentLoan{},
		equipment: map[string]domain.Equipment{},
		companies: map[string]domain.Company{},
		branches:  map[string]domain.Branch{},
		locations: map[string]domain.Location{},
		contacts:  map[string]domain.Contact{},
		addresses: map[string]domain.Address{},
		countries: map[string]domain.Country{},
		regions:   map[string]domain.Region{},
		provinces: map[string]domain.Province{},
		comunas:   map[string]domain.Comuna{},
		users:     map[string]domain.User{},
	}
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func copyMap[T any](src map[string]T) map[string]T {
	dst := make(map[string]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *fakeStore) clone() *fakeStore {
	return &fakeStore{
		seq:         s.seq,
		caseCounter: s.caseCounter,
		tickets:     copyMap(s.tickets),
		actions:     copyMap(s.actions),
		loans:       copyMap(s.loans),
		equipment:   copyMap(s.equipment),
		companies:   copyMap(s.companies),
		branches:    copyMap(s.branches),
		locations:   copyMap(s.locations),
		contacts:    copyMap(s.contacts),
		addresses:   copyMap(s.addresses),
		countries:   copyMap(s.countries),
		regions:     copyMap(s.regions),
		provinces:   copyMap(s.provinces),
		comunas:     copyMap(s.comunas),
		users:       copyMap(s.users),
	}
}

// fakeTx restores the whole store when the closure fails, the same
// observable behavior as a database rollback.
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := t.store.clone()
	if err := fn(ctx); err != nil {
		*t.store = *saved
		return err
	}
	return nil
}

type fakeTicketRepo struct{ store *fakeStore }

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	ticket.ID = r.store.nextID("ticket")
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := r.store.tickets[ticket.ID]; !ok {
		return repository.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.store.tickets[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.store.tickets, id)
	for actionID, action := range r.store.actions {
		if action.TicketID == id {
			delete(r.store.actions, actionID)
		}
	}
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) GetByCaseNumber(ctx context.Context, caseNumber int64) (*domain.Ticket, error) {
	for _, ticket := range r.store.tickets {
		if ticket.CaseNumber == caseNumber {
			t := ticket
			return &t, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.store.tickets {
		if filter.CompanyID != nil && (ticket.CompanyID == nil || *ticket.CompanyID != *filter.CompanyID) {
			continue
		}
		if filter.BranchID != nil && (ticket.BranchID == nil || *ticket.BranchID != *filter.BranchID) {
			continue
		}
		if filter.AssignedTechID != nil && (ticket.AssignedTechID == nil || *ticket.AssignedTechID != *filter.AssignedTechID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.SearchTerm != nil {
			needle := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(ticket.Title), needle) &&
				!strings.Contains(strings.ToLower(ticket.DetailedDescription), needle) {
				continue
			}
		}
		out = append(out, ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseNumber > out[j].CaseNumber })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *fakeTicketRepo) NextCaseNumber(ctx context.Context) (int64, error) {
	r.store.caseCounter++
	return r.store.caseCounter, nil
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type fakeActionRepo struct{ store *fakeStore }

func (r *fakeActionRepo) Create(ctx context.Context, action *domain.TicketAction) error {
	action.ID = r.store.nextID("action")
	if action.ActionDate.IsZero() {
		action.ActionDate = time.Now()
	}
	action.CreatedAt = time.Now()
	action.UpdatedAt = action.CreatedAt
	r.store.actions[action.ID] = *action
	return nil
}

func (r *fakeActionRepo) Update(ctx context.Context, action *domain.TicketAction) error {
	if _, ok := r.store.actions[action.ID]; !ok {
		return repository.ErrNoRows
	}
	action.UpdatedAt = time.Now()
	r.store.actions[action.ID] = *action
	return nil
}

func (r *fakeActionRepo) GetByID(ctx context.Context, id string) (*domain.TicketAction, error) {
	action, ok := r.store.actions[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &action, nil
}

func (r *fakeActionRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAction, error) {
	var out []domain.TicketAction
	for _, action := range r.store.actions {
		if action.TicketID == ticketID {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActionDate.After(out[j].ActionDate) })
	return out, nil
}

type fakeLoanRepo struct{ store *fakeStore }

func (r *fakeLoanRepo) Create(ctx context.Context, loan *domain.EquipmentLoan) error {
	loan.ID = r.store.nextID("loan")
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	r.store.loans[loan.ID] = *loan
	return nil
}

func (r *fakeLoanRepo) Update(ctx context.Context, loan *domain.EquipmentLoan) error {
	if _, ok := r.store.loans[loan.ID]; !ok {
		return repository.ErrNoRows
	}
	loan.UpdatedAt = time.Now()
	r.store.loans[loan.ID] = *loan
	return nil
}

func (r *fakeLoanRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.store.loans[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.store.loans, id)
	return nil
}

func (r *fakeLoanRepo) GetByID(ctx context.Context, id string) (*domain.EquipmentLoan, error) {
	loan, ok := r.store.loans[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &loan, nil
}

func (r *fakeLoanRepo) List(ctx context.Context, filter repository.LoanFilter) ([]domain.EquipmentLoan, error) {
	var out []domain.EquipmentLoan
	for _, loan := range r.store.loans {
		if filter.EquipmentID != nil && loan.EquipmentID != *filter.EquipmentID {
			continue
		}
		if filter.ContactID != nil && loan.ContactID != *filter.ContactID {
			continue
		}
		if filter.TicketID != nil && (loan.TicketID == nil || *loan.TicketID != *filter.TicketID) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if loan.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, loan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *fakeLoanRepo) CountOpenByEquipment(ctx context.Context, equipmentID string) (int64, error) {
	var n int64
	for _, loan := range r.store.loans {
		if loan.EquipmentID == equipmentID &&
			(loan.Status == domain.LoanStatusLoaned || loan.Status == domain.LoanStatusOverdue) {
			n++
		}
	}
	return n, nil
}

func (r *fakeLoanRepo) DetachTicket(ctx context.Context, ticketID string) error {
	for id, loan := range r.store.loans {
		if loan.TicketID != nil && *loan.TicketID == ticketID {
			loan.TicketID = nil
			r.store.loans[id] = loan
		}
	}
	return nil
}

type fakeEquipmentRepo struct{ store *fakeStore }

func (r *fakeEquipmentRepo) Create(ctx context.Context, equipment *domain.Equipment) error {
	equipment.ID = r.store.nextID("equipment")
	equipment.CreatedAt = time.Now()
	equipment.UpdatedAt = equipment.CreatedAt
	r.store.equipment[equipment.ID] = *equipment
	return nil
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, equipment *domain.Equipment) error {
	if _, ok := r.store.equipment[equipment.ID]; !ok {
		return repository.ErrNoRows
	}
	equipment.UpdatedAt = time.Now()
	r.store.equipment[equipment.ID] = *equipment
	return nil
}

func (r *fakeEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	equipment, ok := r.store.equipment[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &equipment, nil
}

func (r *fakeEquipmentRepo) List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.Equipment, error) {
	var out []domain.Equipment
	for _, equipment := range r.store.equipment {
		if filter.CompanyID != nil && (equipment.CompanyID == nil || *equipment.CompanyID != *filter.CompanyID) {
			continue
		}
		if filter.LocationID != nil && (equipment.LocationID == nil || *equipment.LocationID != *filter.LocationID) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if equipment.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if len(filter.Types) > 0 {
			match := false
			for _, t := range filter.Types {
				if equipment.Type == t {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, equipment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *fakeEquipmentRepo) SetStatus(ctx context.Context, id string, status domain.EquipmentStatus) error {
	equipment, ok := r.store.equipment[id]
	if !ok {
		return repository.ErrNoRows
	}
	equipment.Status = status
	equipment.UpdatedAt = time.Now()
	r.store.equipment[id] = equipment
	return nil
}

func (r *fakeEquipmentRepo) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	var n int64
	for _, equipment := range r.store.equipment {
		if equipment.LocationID != nil && *equipment.LocationID == locationID {
			n++
		}
	}
	return n, nil
}

type fakeCompanyRepo struct{ store *fakeStore }

func (r *fakeCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	company.ID = r.store.nextID("company")
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	r.store.companies[company.ID] = *company
	return nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, company *domain.Company) error {
	if _, ok := r.store.companies[company.ID]; !ok {
		return repository.ErrNoRows
	}
	company.UpdatedAt = time.Now()
	r.store.companies[company.ID] = *company
	return nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, ok := r.store.companies[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &company, nil
}

func (r *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	return paginate(r.listAll(), limit, offset), nil
}

func (r *fakeCompanyRepo) ListAll(ctx context.Context) ([]domain.Company, error) {
	return r.listAll(), nil
}

func (r *fakeCompanyRepo) listAll() []domain.Company {
	var out []domain.Company
	for _, company := range r.store.companies {
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeCompanyRepo) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	company, ok := r.store.companies[id]
	if !ok {
		return repository.ErrNoRows
	}
	company.State = state
	r.store.companies[id] = company
	return nil
}

type fakeBranchRepo struct{ store *fakeStore }

func (r *fakeBranchRepo) Create(ctx context.Context, branch *domain.Branch) error {
	branch.ID = r.store.nextID("branch")
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = branch.CreatedAt
	r.store.branches[branch.ID] = *branch
	return nil
}

func (r *fakeBranchRepo) Update(ctx context.Context, branch *domain.Branch) error {
	if _, ok := r.store.branches[branch.ID]; !ok {
		return repository.ErrNoRows
	}
	branch.UpdatedAt = time.Now()
	r.store.branches[branch.ID] = *branch
	return nil
}

func (r *fakeBranchRepo) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	branch, ok := r.store.branches[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &branch, nil
}

func (r *fakeBranchRepo) FindByNameAndAddress(ctx context.Context, name, addressID string) (*domain.Branch, error) {
	for _, branch := range r.store.branches {
		if branch.Name == name && branch.AddressID == addressID {
			b := branch
			return &b, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeBranchRepo) List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Branch, error) {
	var out []domain.Branch
	for _, branch := range r.store.branches {
		if companyID != nil && (branch.CompanyID == nil || *branch.CompanyID != *companyID) {
			continue
		}
		out = append(out, branch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeBranchRepo) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	branch, ok := r.store.branches[id]
	if !ok {
		return repository.ErrNoRows
	}
	branch.State = state
	r.store.branches[id] = branch
	return nil
}

func (r *fakeBranchRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.store.branches[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.store.branches, id)
	return nil
}

type fakeLocationRepo struct{ store *fakeStore }

func (r *fakeLocationRepo) Create(ctx context.Context, location *domain.Location) error {
	location.ID = r.store.nextID("location")
	location.CreatedAt = time.Now()
	location.UpdatedAt = location.CreatedAt
	r.store.locations[location.ID] = *location
	return nil
}

func (r *fakeLocationRepo) Update(ctx context.Context, location *domain.Location) error {
	if _, ok := r.store.locations[location.ID]; !ok {
		return repository.ErrNoRows
	}
	location.UpdatedAt = time.Now()
	r.store.locations[location.ID] = *location
	return nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	location, ok := r.store.locations[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &location, nil
}

func (r *fakeLocationRepo) FindByBranchAndName(ctx context.Context, branchID string, referenceName *string) (*domain.Location, error) {
	for _, location := range r.store.locations {
		if location.BranchID != branchID {
			continue
		}
		if referenceName == nil && location.ReferenceName == nil {
			l := location
			return &l, nil
		}
		if referenceName != nil && location.ReferenceName != nil && *referenceName == *location.ReferenceName {
			l := location
			return &l, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeLocationRepo) ListByBranch(ctx context.Context, branchID string) ([]domain.Location, error) {
	var out []domain.Location
	for _, location := range r.store.locations {
		if location.BranchID == branchID {
			out = append(out, location)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLocationRepo) List(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	var out []domain.Location
	for _, location := range r.store.locations {
		out = append(out, location)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeLocationRepo) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	location, ok := r.store.locations[id]
	if !ok {
		return repository.ErrNoRows
	}
	location.State = state
	r.store.locations[id] = location
	return nil
}

func (r *fakeLocationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.store.locations[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.store.locations, id)
	return nil
}

type fakeContactRepo struct{ store *fakeStore }

func (r *fakeContactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	contact.ID = r.store.nextID("contact")
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	r.store.contacts[contact.ID] = *contact
	return nil
}

func (r *fakeContactRepo) Update(ctx context.Context, contact *domain.Contact) error {
	if _, ok := r.store.contacts[contact.ID]; !ok {
		return repository.ErrNoRows
	}
	contact.UpdatedAt = time.Now()
	r.store.contacts[contact.ID] = *contact
	return nil
}

func (r *fakeContactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	contact, ok := r.store.contacts[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &contact, nil
}

func (r *fakeContactRepo) List(ctx context.Context, companyID *string, limit, offset int) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, contact := range r.store.contacts {
		if companyID != nil && contact.CompanyID != *companyID {
			continue
		}
		out = append(out, contact)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *fakeContactRepo) ListAll(ctx context.Context) ([]domain.Contact, error) {
	return r.List(ctx, nil, 0, 0)
}

func (r *fakeContactRepo) SetState(ctx context.Context, id string, state domain.LifecycleState) error {
	contact, ok := r.store.contacts[id]
	if !ok {
		return repository.ErrNoRows
	}
	contact.State = state
	r.store.contacts[id] = contact
	return nil
}

func (r *fakeContactRepo) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	var n int64
	for _, contact := range r.store.contacts {
		if contact.LocationID != nil && *contact.LocationID == locationID {
			n++
		}
	}
	return n, nil
}

type fakeAddressRepo struct{ store *fakeStore }

func (r *fakeAddressRepo) Create(ctx context.Context, address *domain.Address) error {
	address.ID = r.store.nextID("address")
	address.CreatedAt = time.Now()
	address.UpdatedAt = address.CreatedAt
	r.store.addresses[address.ID] = *address
	return nil
}

func (r *fakeAddressRepo) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	address, ok := r.store.addresses[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &address, nil
}

func (r *fakeAddressRepo) FindByNaturalKey(ctx context.Context, street, number, comunaID string) (*domain.Address, error) {
	for _, address := range r.store.addresses {
		if address.Street == street && address.Number == number && address.ComunaID == comunaID {
			a := address
			return &a, nil
		}
	}
	return nil, repository.ErrNoRows
}

type fakeGeographyRepo struct{ store *fakeStore }

func (r *fakeGeographyRepo) FindCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	for _, country := range r.store.countries {
		if strings.EqualFold(country.Name, name) {
			c := country
			return &c, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeGeographyRepo) CreateCountry(ctx context.Context, country *domain.Country) error {
	country.ID = r.store.nextID("country")
	r.store.countries[country.ID] = *country
	return nil
}

func (r *fakeGeographyRepo) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var out []domain.Country
	for _, country := range r.store.countries {
		out = append(out, country)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGeographyRepo) FindRegionByName(ctx context.Context, countryID, name string) (*domain.Region, error) {
	for _, region := range r.store.regions {
		if region.CountryID == countryID && strings.EqualFold(region.Name, name) {
			reg := region
			return &reg, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeGeographyRepo) CreateRegion(ctx context.Context, region *domain.Region) error {
	region.ID = r.store.nextID("region")
	r.store.regions[region.ID] = *region
	return nil
}

func (r *fakeGeographyRepo) ListRegions(ctx context.Context) ([]domain.Region, error) {
	var out []domain.Region
	for _, region := range r.store.regions {
		out = append(out, region)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGeographyRepo) FindProvinceByName(ctx context.Context, regionID, name string) (*domain.Province, error) {
	for _, province := range r.store.provinces {
		if province.RegionID == regionID && strings.EqualFold(province.Name, name) {
			p := province
			return &p, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeGeographyRepo) CreateProvince(ctx context.Context, province *domain.Province) error {
	province.ID = r.store.nextID("province")
	r.store.provinces[province.ID] = *province
	return nil
}

func (r *fakeGeographyRepo) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	var out []domain.Province
	for _, province := range r.store.provinces {
		out = append(out, province)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGeographyRepo) FindComunaByName(ctx context.Context, provinceID, name string) (*domain.Comuna, error) {
	for _, comuna := range r.store.comunas {
		if comuna.ProvinceID == provinceID && strings.EqualFold(comuna.Name, name) {
			c := comuna
			return &c, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeGeographyRepo) CreateComuna(ctx context.Context, comuna *domain.Comuna) error {
	comuna.ID = r.store.nextID("comuna")
	r.store.comunas[comuna.ID] = *comuna
	return nil
}

func (r *fakeGeographyRepo) ListComunas(ctx context.Context) ([]domain.Comuna, error) {
	var out []domain.Comuna
	for _, comuna := range r.store.comunas {
		out = append(out, comuna)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.store.nextID("user")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.store.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// testEnv wires every service against the shared in-memory store, the way
// main wires them against postgres.
type testEnv struct {
	store      *fakeStore
	dispatcher events.Dispatcher

	tickets   *TicketService
	actions   *ActionService
	loans     *LoanService
	equipment *EquipmentService
	companies *CompanyService
	branches  *BranchService
	locations *LocationService
	contacts  *ContactService
	importer  *ImportService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	tx := &fakeTx{store: store}
	dispatcher := events.NewInMemoryDispatcher()

	ticketRepo := &fakeTicketRepo{store: store}
	actionRepo := &fakeActionRepo{store: store}
	loanRepo := &fakeLoanRepo{store: store}
	equipmentRepo := &fakeEquipmentRepo{store: store}
	companyRepo := &fakeCompanyRepo{store: store}
	branchRepo := &fakeBranchRepo{store: store}
	locationRepo := &fakeLocationRepo{store: store}
	contactRepo := &fakeContactRepo{store: store}
	addressRepo := &fakeAddressRepo{store: store}
	geographyRepo := &fakeGeographyRepo{store: store}
	userRepo := &fakeUserRepo{store: store}

	loanSvc := NewLoanService(LoanDependencies{
		LoanRepo:      loanRepo,
		EquipmentRepo: equipmentRepo,
		ContactRepo:   contactRepo,
		Tx:            tx,
		Dispatcher:    dispatcher,
	})

	return &testEnv{
		store:      store,
		dispatcher: dispatcher,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: ticketRepo,
			ActionRepo: actionRepo,
			LoanRepo:   loanRepo,
			LoanSvc:    loanSvc,
			Tx:         tx,
			Dispatcher: dispatcher,
		}),
		actions:   NewActionService(actionRepo, ticketRepo),
		loans:     loanSvc,
		equipment: NewEquipmentService(equipmentRepo, loanRepo),
		companies: NewCompanyService(companyRepo),
		branches: NewBranchService(BranchDependencies{
			BranchRepo:    branchRepo,
			LocationRepo:  locationRepo,
			ContactRepo:   contactRepo,
			EquipmentRepo: equipmentRepo,
			AddressRepo:   addressRepo,
			Tx:            tx,
		}),
		locations: NewLocationService(LocationDependencies{
			LocationRepo:  locationRepo,
			BranchRepo:    branchRepo,
			ContactRepo:   contactRepo,
			EquipmentRepo: equipmentRepo,
		}),
		contacts: NewContactService(contactRepo, companyRepo),
		importer: NewImportService(ImportDependencies{
			TicketRepo:    ticketRepo,
			ActionRepo:    actionRepo,
			CompanyRepo:   companyRepo,
			UserRepo:      userRepo,
			ContactRepo:   contactRepo,
			GeographyRepo: geographyRepo,
			AddressRepo:   addressRepo,
			BranchRepo:    branchRepo,
			LocationRepo:  locationRepo,
			Tx:            tx,
			Dispatcher:    dispatcher,
			Logger:        zap.NewNop(),
			MaxRows:       100,
		}),
	}
}

// seedContact creates a company plus an ACTIVE contact in it.
func (e *testEnv) seedContact(t *testing.T) *domain.Contact {
	t.Helper()
	company, err := e.companies.Create(context.Background(), CompanyCreateInput{Name: "Acme", RUT: "76.000.000-1"})
	require.NoError(t, err)
	contact, err := e.contacts.Create(context.Background(), ContactCreateInput{CompanyID: company.ID, Name: "Juan Soto"})
	require.NoError(t, err)
	return contact
}

// seedEquipment creates an AVAILABLE laptop.
func (e *testEnv) seedEquipment(t *testing.T, name string) *domain.Equipment {
	t.Helper()
	equipment, err := e.equipment.Create(context.Background(), EquipmentCreateInput{
		Name:             name,
		UniqueIdentifier: "SN-" + name,
		Type:             domain.EquipmentTypeLaptop,
	})
	require.NoError(t, err)
	return equipment
}
