package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/events"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// importTimeLayout is the timestamp format used by the legacy export files.
const importTimeLayout = "2006-01-02 15:04:05"

// initialImportAction is appended to every ticket created through a bulk
// load, dated with the ticket's original creation time.
const initialImportAction = "Ticket creado mediante carga masiva."

// ImportRow is one record of a bulk load. TICKET rows carry the full
// denormalized ticket including its textual geography; ACCION rows reference
// a ticket by case number, which may have been created earlier in the same
// batch.
type ImportRow struct {
	TipoRegistro string `json:"tipo_registro" validate:"required,oneof=TICKET ACCION"`

	Titulo              string `json:"titulo" validate:"required_if=TipoRegistro TICKET"`
	Descripcion         string `json:"descripcion" validate:"required_if=TipoRegistro ACCION"`
	TipoIncidente       string `json:"tipoIncidente"`
	Prioridad           string `json:"prioridad"`
	Estado              string `json:"estado"`
	FechaCreacion       string `json:"fechaCreacion" validate:"required_if=TipoRegistro TICKET"`
	SolicitanteNombre   string `json:"solicitanteNombre" validate:"required_if=TipoRegistro TICKET"`
	SolicitanteTelefono string `json:"solicitanteTelefono"`
	SolicitanteEmail    string `json:"solicitanteEmail"`
	EmpresaNombre       string `json:"empresaNombre"`
	TecnicoNombre       string `json:"tecnicoNombre"`
	ContactoNombre      string `json:"contactoNombre"`
	EquipoAfectado      string `json:"equipoAfectado"`

	Pais            string `json:"pais" validate:"required_if=TipoRegistro TICKET"`
	Region          string `json:"region" validate:"required_if=TipoRegistro TICKET"`
	Provincia       string `json:"provincia" validate:"required_if=TipoRegistro TICKET"`
	Comuna          string `json:"comuna" validate:"required_if=TipoRegistro TICKET"`
	Calle           string `json:"calle" validate:"required_if=TipoRegistro TICKET"`
	Numero          string `json:"numero" validate:"required_if=TipoRegistro TICKET"`
	Depto           string `json:"depto"`
	NombreSucursal  string `json:"nombreSucursal" validate:"required_if=TipoRegistro TICKET"`
	NombreUbicacion string `json:"nombreUbicacion"`

	NumeroCaso  int64  `json:"numero_caso" validate:"required_if=TipoRegistro ACCION"`
	FechaAccion string `json:"fecha_accion"`
	Categoria   string `json:"categoria"`
}

// ImportRowError reports why one row failed, carrying the offending row so
// the caller can fix the file without counting lines.
type ImportRowError struct {
	Row   int       `json:"fila"`
	Data  ImportRow `json:"data"`
	Error string    `json:"error"`
}

// ImportResult summarizes a bulk load. Because the whole batch runs in one
// transaction, any row error rolls everything back: SuccessfulCount is then
// zero and FailedCount covers every row, including the ones that were
// individually fine.
type ImportResult struct {
	Message         string           `json:"message"`
	SuccessfulCount int              `json:"successfulCount"`
	FailedCount     int              `json:"failedCount"`
	Errors          []ImportRowError `json:"errors,omitempty"`
}

// errImportAborted forces the surrounding transaction to roll back once row
// errors have been collected.
var errImportAborted = errors.New("import aborted")

// ImportService reconciles legacy export files into the live database.
type ImportService struct {
	tickets    repository.TicketRepository
	actions    repository.TicketActionRepository
	companies  repository.CompanyRepository
	users      repository.UserRepository
	contacts   repository.ContactRepository
	geography  repository.GeographyRepository
	addresses  repository.AddressRepository
	branches   repository.BranchRepository
	locations  repository.LocationRepository
	tx         persistence.Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
	validate   *validator.Validate
	maxRows    int
}

// ImportDependencies bundles collaborators for the import service.
type ImportDependencies struct {
	TicketRepo    repository.TicketRepository
	ActionRepo    repository.TicketActionRepository
	CompanyRepo   repository.CompanyRepository
	UserRepo      repository.UserRepository
	ContactRepo   repository.ContactRepository
	GeographyRepo repository.GeographyRepository
	AddressRepo   repository.AddressRepository
	BranchRepo    repository.BranchRepository
	LocationRepo  repository.LocationRepository
	Tx            persistence.Transactor
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	MaxRows       int
}

// NewImportService constructs the service.
func NewImportService(deps ImportDependencies) *ImportService {
	return &ImportService{
		tickets:    deps.TicketRepo,
		actions:    deps.ActionRepo,
		companies:  deps.CompanyRepo,
		users:      deps.UserRepo,
		contacts:   deps.ContactRepo,
		geography:  deps.GeographyRepo,
		addresses:  deps.AddressRepo,
		branches:   deps.BranchRepo,
		locations:  deps.LocationRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		validate:   validator.New(),
		maxRows:    deps.MaxRows,
	}
}

// importRun holds the per-run working set: the resolver with its memoized
// geography, the preloaded natural-key indexes and the tickets created so
// far, keyed by case number so ACCION rows can find them.
type importRun struct {
	resolver       *entityResolver
	companiesByKey map[string]*domain.Company
	usersByKey     map[string]*domain.User
	contactsByKey  map[string]*domain.Contact
	ticketsByCase  map[int64]*domain.Ticket
	rowErrors      []ImportRowError
}

// Run processes the batch atomically. Row errors are collected rather than
// short-circuiting, so one bad file produces one complete error report, and
// the transaction is rolled back whenever the report is non-empty.
func (s *ImportService) Run(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, errorutil.NewValidationError("no rows to import", nil)
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, errorutil.NewValidationError(
			fmt.Sprintf("too many rows: %d exceeds the limit of %d", len(rows), s.maxRows), nil)
	}

	run := &importRun{
		resolver:      newEntityResolver(s.geography, s.addresses, s.branches, s.locations),
		ticketsByCase: make(map[int64]*domain.Ticket),
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.preload(ctx, run); err != nil {
			return err
		}
		for i, row := range rows {
			if err := s.processRow(ctx, run, row); err != nil {
				run.rowErrors = append(run.rowErrors, ImportRowError{Row: i + 1, Data: row, Error: err.Error()})
			}
		}
		if len(run.rowErrors) > 0 {
			return errImportAborted
		}
		return nil
	})

	result := &ImportResult{}
	switch {
	case err == nil:
		result.Message = "import completed"
		result.SuccessfulCount = len(rows)
	case errors.Is(err, errImportAborted):
		result.Message = "import failed; no rows were applied"
		result.FailedCount = len(rows)
		result.Errors = run.rowErrors
	default:
		return nil, err
	}

	s.logger.Info("bulk import finished",
		zap.Int("rows", len(rows)),
		zap.Int("successful", result.SuccessfulCount),
		zap.Int("failed", result.FailedCount),
	)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventImportCompleted,
			Timestamp: time.Now(),
			Payload: events.ImportCompletedPayload{
				SuccessfulCount: result.SuccessfulCount,
				FailedCount:     result.FailedCount,
			},
		})
	}
	return result, nil
}

// preload indexes companies, users and contacts by lowercased name. The
// snapshot is taken inside the transaction so the run works against a
// consistent view.
func (s *ImportService) preload(ctx context.Context, run *importRun) error {
	companies, err := s.companies.ListAll(ctx)
	if err != nil {
		return err
	}
	run.companiesByKey = make(map[string]*domain.Company, len(companies))
	for i := range companies {
		run.companiesByKey[cacheKey(companies[i].Name)] = &companies[i]
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return err
	}
	run.usersByKey = make(map[string]*domain.User, len(users))
	for i := range users {
		run.usersByKey[cacheKey(users[i].Name)] = &users[i]
	}

	contacts, err := s.contacts.ListAll(ctx)
	if err != nil {
		return err
	}
	run.contactsByKey = make(map[string]*domain.Contact, len(contacts))
	for i := range contacts {
		run.contactsByKey[cacheKey(contacts[i].Name)] = &contacts[i]
	}
	return nil
}

func (s *ImportService) processRow(ctx context.Context, run *importRun, row ImportRow) error {
	if err := s.validate.Struct(row); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("invalid row: %s", strings.Join(fields, ", "))
		}
		return err
	}

	switch row.TipoRegistro {
	case "TICKET":
		return s.processTicketRow(ctx, run, row)
	case "ACCION":
		return s.processActionRow(ctx, run, row)
	}
	return fmt.Errorf("unknown tipo_registro %q", row.TipoRegistro)
}

func (s *ImportService) processTicketRow(ctx context.Context, run *importRun, row ImportRow) error {
	createdAt, err := parseImportTime(row.FechaCreacion)
	if err != nil {
		return fmt.Errorf("fechaCreacion: %w", err)
	}

	priority := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(row.Prioridad)))
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return fmt.Errorf("unknown priority %q", row.Prioridad)
	}
	status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(row.Estado)))
	if status == "" {
		status = domain.TicketStatusOpen
	}
	if !domain.ValidTicketStatus(status) {
		return fmt.Errorf("unknown status %q", row.Estado)
	}

	comuna, err := run.resolver.resolveComuna(ctx, row.Pais, row.Region, row.Provincia, row.Comuna)
	if err != nil {
		return err
	}
	var unit *string
	if strings.TrimSpace(row.Depto) != "" {
		trimmed := strings.TrimSpace(row.Depto)
		unit = &trimmed
	}
	address, err := run.resolver.resolveAddress(ctx, comuna.ID, row.Calle, row.Numero, unit)
	if err != nil {
		return err
	}

	var companyID *string
	if company, ok := run.companiesByKey[cacheKey(row.EmpresaNombre)]; ok && row.EmpresaNombre != "" {
		companyID = &company.ID
	}
	branch, err := run.resolver.resolveBranch(ctx, row.NombreSucursal, address.ID, companyID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(row.NombreUbicacion) != "" {
		name := strings.TrimSpace(row.NombreUbicacion)
		if _, err := run.resolver.resolveLocation(ctx, branch.ID, &name); err != nil {
			return err
		}
	}

	ticket := &domain.Ticket{
		Title:               strings.TrimSpace(row.Titulo),
		DetailedDescription: row.Descripcion,
		IncidentType:        strings.TrimSpace(row.TipoIncidente),
		Priority:            priority,
		Status:              status,
		RequesterName:       strings.TrimSpace(row.SolicitanteNombre),
		CompanyID:           companyID,
		BranchID:            &branch.ID,
		CreatedAt:           createdAt,
	}
	if phone := strings.TrimSpace(row.SolicitanteTelefono); phone != "" {
		ticket.RequesterPhone = &phone
	}
	if email := strings.TrimSpace(row.SolicitanteEmail); email != "" {
		ticket.RequesterEmail = &email
	}
	if tech, ok := run.usersByKey[cacheKey(row.TecnicoNombre)]; ok && row.TecnicoNombre != "" {
		ticket.AssignedTechID = &tech.ID
	}
	if contact, ok := run.contactsByKey[cacheKey(row.ContactoNombre)]; ok && row.ContactoNombre != "" {
		ticket.ContactID = &contact.ID
	}
	if affected := strings.TrimSpace(row.EquipoAfectado); affected != "" {
		ticket.AffectedEquipment = &affected
	}

	caseNumber, err := s.tickets.NextCaseNumber(ctx)
	if err != nil {
		return err
	}
	ticket.CaseNumber = caseNumber
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return err
	}
	run.ticketsByCase[ticket.CaseNumber] = ticket

	action := &domain.TicketAction{
		TicketID:    ticket.ID,
		Description: initialImportAction,
		ActionDate:  createdAt,
		Category:    "sistema",
	}
	return s.actions.Create(ctx, action)
}

func (s *ImportService) processActionRow(ctx context.Context, run *importRun, row ImportRow) error {
	ticket, ok := run.ticketsByCase[row.NumeroCaso]
	if !ok {
		existing, err := s.tickets.GetByCaseNumber(ctx, row.NumeroCaso)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return fmt.Errorf("no ticket with case number %d", row.NumeroCaso)
			}
			return err
		}
		ticket = existing
		run.ticketsByCase[row.NumeroCaso] = ticket
	}

	action := &domain.TicketAction{
		TicketID:    ticket.ID,
		Description: strings.TrimSpace(row.Descripcion),
		Category:    domain.DefaultActionCategory,
	}
	if category := strings.TrimSpace(row.Categoria); category != "" {
		action.Category = category
	}
	if strings.TrimSpace(row.FechaAccion) != "" {
		actionDate, err := parseImportTime(row.FechaAccion)
		if err != nil {
			return fmt.Errorf("fecha_accion: %w", err)
		}
		action.ActionDate = actionDate
	}
	return s.actions.Create(ctx, action)
}

// parseImportTime accepts the legacy export layout first and RFC3339 as a
// fallback.
func parseImportTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(importTimeLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
	}
	return t, nil
}
