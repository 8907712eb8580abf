package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// fakeTickets satisfies TicketRepositoryInterface with an in-memory counter.
type fakeTickets struct {
	seqByYear map[int]int
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{seqByYear: make(map[int]int)}
}

func (f *fakeTickets) NextSequence(ctx context.Context, q repositories.Querier, year int) (int, error) {
	f.seqByYear[year]++
	return f.seqByYear[year], nil
}

type fakeRequestRepo struct {
	nextID   uint64
	requests map[uint64]*entities.ServiceRequest
	extras   map[uint64][]uint64
	parts    map[uint64][]entities.RequestPart
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[uint64]*entities.ServiceRequest),
		extras:   make(map[uint64][]uint64),
		parts:    make(map[uint64][]entities.RequestPart),
	}
}

func (f *fakeRequestRepo) List(ctx context.Context, filter types.Filter) ([]repositories.ServiceRequestRow, uint64, error) {
	var out []repositories.ServiceRequestRow
	for _, req := range f.requests {
		out = append(out, repositories.ServiceRequestRow{Request: *req})
	}
	return out, uint64(len(out)), nil
}

func (f *fakeRequestRepo) Find(ctx context.Context, id uint64) (*repositories.ServiceRequestRow, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &repositories.ServiceRequestRow{Request: *req}, nil
}

func (f *fakeRequestRepo) FindForUpdateTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ServiceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestRepo) CreateTx(ctx context.Context, tx pgx.Tx, ticketID string, createdBy uint64, d dto.CreateServiceRequestDTO) (uint64, error) {
	f.nextID++
	f.requests[f.nextID] = &entities.ServiceRequest{
		ID:             f.nextID,
		TicketID:       ticketID,
		EquipmentID:    d.EquipmentID,
		AssigneeID:     d.AssigneeID,
		RequestType:    d.RequestType,
		Priority:       d.Priority,
		ScheduledAt:    d.ScheduledAt,
		ApprovalStatus: constants.ApprovalPending,
		WorkStatus:     constants.WorkPending,
		ProblemDesc:    d.ProblemDesc,
		CreatedBy:      createdBy,
	}
	return f.nextID, nil
}

func (f *fakeRequestRepo) UpdateFieldsTx(ctx context.Context, tx pgx.Tx, id uint64, set map[string]interface{}) error {
	req, ok := f.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for col, val := range set {
		switch col {
		case "equipment_id":
			req.EquipmentID = val.(uint64)
		case "assignee_id":
			v := val.(uint64)
			req.AssigneeID = &v
		case "request_type":
			req.RequestType = val.(string)
		case "priority":
			req.Priority = val.(string)
		case "scheduled_at":
			v := val.(time.Time)
			req.ScheduledAt = &v
		case "problem_description":
			req.ProblemDesc = val.(string)
		case "technical_assessment":
			req.Assessment = val.(string)
		case "recommendation":
			req.Recommendation = val.(string)
		case "approval_status":
			req.ApprovalStatus = val.(string)
		case "work_status":
			req.WorkStatus = val.(string)
		}
	}
	return nil
}

func (f *fakeRequestRepo) ReplaceExtraAssigneesTx(ctx context.Context, tx pgx.Tx, requestID uint64, assignees []uint64) error {
	f.extras[requestID] = assignees
	return nil
}

func (f *fakeRequestRepo) ListExtraAssignees(ctx context.Context, requestID uint64) ([]uint64, error) {
	return f.extras[requestID], nil
}

func (f *fakeRequestRepo) ReplacePartsTx(ctx context.Context, tx pgx.Tx, requestID uint64, parts []entities.RequestPart) error {
	f.parts[requestID] = parts
	return nil
}

func (f *fakeRequestRepo) ListParts(ctx context.Context, requestID uint64) ([]entities.RequestPart, error) {
	return f.parts[requestID], nil
}

func (f *fakeRequestRepo) SoftDelete(ctx context.Context, id uint64) error {
	if _, ok := f.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) ListPendingPreventiveByLocationTx(ctx context.Context, tx pgx.Tx, locationID uint64) ([]entities.ServiceRequest, error) {
	var out []entities.ServiceRequest
	for _, req := range f.requests {
		if req.RequestType == constants.RequestTypePreventive && req.WorkStatus != constants.WorkCompleted {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) CompleteBatchTx(ctx context.Context, tx pgx.Tx, requestIDs []uint64) (int64, error) {
	var n int64
	for _, id := range requestIDs {
		if req, ok := f.requests[id]; ok {
			req.WorkStatus = constants.WorkCompleted
			n++
		}
	}
	return n, nil
}

type fakeEquipmentRepo struct {
	nextID  uint64
	items   map[uint64]*entities.Equipment
	stamped map[uint64]time.Time
	byTag   map[string]uint64

	findByTagErr error
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{
		items:   make(map[uint64]*entities.Equipment),
		stamped: make(map[uint64]time.Time),
		byTag:   make(map[string]uint64),
	}
}

func (f *fakeEquipmentRepo) add(e entities.Equipment) uint64 {
	f.nextID++
	e.ID = f.nextID
	f.items[e.ID] = &e
	if e.TagNumber != "" {
		f.byTag[e.TagNumber] = e.ID
	}
	return e.ID
}

func (f *fakeEquipmentRepo) List(ctx context.Context, filter types.Filter) ([]repositories.EquipmentRow, uint64, error) {
	var out []repositories.EquipmentRow
	for _, e := range f.items {
		out = append(out, repositories.EquipmentRow{Equipment: *e})
	}
	return out, uint64(len(out)), nil
}

func (f *fakeEquipmentRepo) Find(ctx context.Context, id uint64) (*repositories.EquipmentRow, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &repositories.EquipmentRow{Equipment: *e}, nil
}

func (f *fakeEquipmentRepo) FindByTag(ctx context.Context, tagNumber string) (*entities.Equipment, error) {
	if f.findByTagErr != nil {
		return nil, f.findByTagErr
	}
	id, ok := f.byTag[tagNumber]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return f.items[id], nil
}

func (f *fakeEquipmentRepo) Create(ctx context.Context, d dto.CreateEquipmentDTO) (uint64, error) {
	return f.add(entities.Equipment{
		Name:                d.Name,
		TagNumber:           d.TagNumber,
		LocationID:          d.LocationID,
		LastMaintenance:     d.LastMaintenance,
		MaintenanceInterval: d.MaintenanceInterval,
	}), nil
}

func (f *fakeEquipmentRepo) CreateTx(ctx context.Context, tx pgx.Tx, d dto.CreateEquipmentDTO) (uint64, error) {
	return f.Create(ctx, d)
}

func (f *fakeEquipmentRepo) Update(ctx context.Context, id uint64, d dto.UpdateEquipmentDTO) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (f *fakeEquipmentRepo) SoftDelete(ctx context.Context, id uint64) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEquipmentRepo) ListByLocation(ctx context.Context, locationID uint64) ([]entities.Equipment, error) {
	var out []entities.Equipment
	for _, e := range f.items {
		if e.LocationID != nil && *e.LocationID == locationID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEquipmentRepo) StampLastMaintenanceTx(ctx context.Context, tx pgx.Tx, equipmentIDs []uint64, date time.Time) error {
	for _, id := range equipmentIDs {
		f.stamped[id] = date
		if e, ok := f.items[id]; ok {
			d := date
			e.LastMaintenance = &d
		}
	}
	return nil
}

type fakeSparePartRepo struct {
	nextID uint64
	byName map[string]uint64
	items  map[uint64]*entities.SparePart
}

func newFakeSparePartRepo() *fakeSparePartRepo {
	return &fakeSparePartRepo{byName: make(map[string]uint64), items: make(map[uint64]*entities.SparePart)}
}

func (f *fakeSparePartRepo) List(ctx context.Context, filter types.Filter) ([]entities.SparePart, uint64, error) {
	var out []entities.SparePart
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeSparePartRepo) Find(ctx context.Context, id uint64) (*entities.SparePart, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeSparePartRepo) Create(ctx context.Context, d dto.CreateSparePartDTO) (uint64, error) {
	f.nextID++
	f.byName[strings.ToLower(d.Name)] = f.nextID
	f.items[f.nextID] = &entities.SparePart{
		ID:          f.nextID,
		Name:        d.Name,
		PartNumber:  d.PartNumber,
		Quantity:    d.Quantity,
		MinQuantity: d.MinQuantity,
		UnitCost:    d.UnitCost,
	}
	return f.nextID, nil
}

func (f *fakeSparePartRepo) Update(ctx context.Context, id uint64, d dto.UpdateSparePartDTO) error {
	return nil
}

func (f *fakeSparePartRepo) SoftDelete(ctx context.Context, id uint64) error { return nil }

func (f *fakeSparePartRepo) UpsertByNameTx(ctx context.Context, tx pgx.Tx, name string) (uint64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := f.byName[key]; ok {
		return id, nil
	}
	f.nextID++
	f.byName[key] = f.nextID
	f.items[f.nextID] = &entities.SparePart{ID: f.nextID, Name: strings.TrimSpace(name)}
	return f.nextID, nil
}

func (f *fakeSparePartRepo) IncrementQuantityTx(ctx context.Context, tx pgx.Tx, sparePartID uint64, delta int) error {
	p, ok := f.items[sparePartID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Quantity += delta
	return nil
}

func (f *fakeSparePartRepo) stock(id uint64) int {
	if p, ok := f.items[id]; ok {
		return p.Quantity
	}
	return 0
}

func newRequestService(t *testing.T) (*fakeRequestRepo, *fakeEquipmentRepo, *fakeSparePartRepo, ServiceRequestServiceInterface) {
	t.Helper()
	requests := newFakeRequestRepo()
	equipment := newFakeEquipmentRepo()
	parts := newFakeSparePartRepo()
	svc := NewServiceRequestService(requests, equipment, parts, newFakeTickets(), &fakeTxManager{}, zap.NewNop())
	return requests, equipment, parts, svc
}

func TestCreateServiceRequestAssignsTicketID(t *testing.T) {
	_, equipment, _, svc := newRequestService(t)
	eqID := equipment.add(entities.Equipment{Name: "AHU-1", TagNumber: "T-100"})

	first, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityHigh,
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityLow,
	})
	require.NoError(t, err)

	year := time.Now().Year() % 100
	assert.Equal(t, repositories.FormatTicketID(year, 1), first.TicketID)
	assert.Equal(t, repositories.FormatTicketID(year, 2), second.TicketID)
	assert.Equal(t, constants.ApprovalPending, first.ApprovalStatus)
	assert.Equal(t, constants.WorkPending, first.WorkStatus)
}

func TestCreateServiceRequestUnknownEquipment(t *testing.T) {
	_, _, _, svc := newRequestService(t)

	_, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: 999,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityLow,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApprovedRequestAssigneeEditsAssessmentOnly(t *testing.T) {
	requests, equipment, _, svc := newRequestService(t)
	eqID := equipment.add(entities.Equipment{Name: "Pump", TagNumber: "T-1"})

	assignee := uint64(7)
	created, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		AssigneeID:  &assignee,
		RequestType: constants.RequestTypeAssess,
		Priority:    constants.PriorityMedium,
	})
	require.NoError(t, err)
	requests.requests[created.ID].ApprovalStatus = constants.ApprovalApproved

	assessment := "bearing worn, replace within a month"
	updated, err := svc.Update(context.Background(), assignee, authz.RoleTechnician, created.ID,
		dto.UpdateServiceRequestDTO{Assessment: &assessment})
	require.NoError(t, err)
	assert.Equal(t, assessment, updated.Assessment)

	// The same editor may not flip the approval axis.
	rejected := constants.ApprovalRejected
	_, err = svc.Update(context.Background(), assignee, authz.RoleTechnician, created.ID,
		dto.UpdateServiceRequestDTO{ApprovalStatus: &rejected})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestBasicFieldsLockAfterApprovalForNonApprovers(t *testing.T) {
	requests, equipment, _, svc := newRequestService(t)
	eqID := equipment.add(entities.Equipment{Name: "Chiller", TagNumber: "T-2"})

	created, err := svc.Create(context.Background(), 3, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityLow,
	})
	require.NoError(t, err)
	requests.requests[created.ID].ApprovalStatus = constants.ApprovalApproved

	priority := constants.PriorityHigh
	_, err = svc.Update(context.Background(), 3, authz.RoleUser, created.ID,
		dto.UpdateServiceRequestDTO{Priority: &priority})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// A supervisor may still reprioritize while work is open.
	updated, err := svc.Update(context.Background(), 9, authz.RoleSupervisor, created.ID,
		dto.UpdateServiceRequestDTO{Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, constants.PriorityHigh, updated.Priority)
}

func TestApprovalAxisIsTerminal(t *testing.T) {
	_, equipment, _, svc := newRequestService(t)
	eqID := equipment.add(entities.Equipment{Name: "Fan", TagNumber: "T-3"})

	created, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeOther,
		Priority:    constants.PriorityLow,
	})
	require.NoError(t, err)

	approved := constants.ApprovalApproved
	updated, err := svc.Update(context.Background(), 9, authz.RoleSupervisor, created.ID,
		dto.UpdateServiceRequestDTO{ApprovalStatus: &approved})
	require.NoError(t, err)
	assert.Equal(t, constants.ApprovalApproved, updated.ApprovalStatus)

	rejected := constants.ApprovalRejected
	_, err = svc.Update(context.Background(), 9, authz.RoleSupervisor, created.ID,
		dto.UpdateServiceRequestDTO{ApprovalStatus: &rejected})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestWorkStatusLocksAtCompleted(t *testing.T) {
	requests, equipment, _, svc := newRequestService(t)
	eqID := equipment.add(entities.Equipment{Name: "Boiler", TagNumber: "T-4"})

	created, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityMedium,
	})
	require.NoError(t, err)
	requests.requests[created.ID].WorkStatus = constants.WorkCompleted

	inProgress := constants.WorkInProgress
	_, err = svc.Update(context.Background(), 9, authz.RoleSupervisor, created.ID,
		dto.UpdateServiceRequestDTO{WorkStatus: &inProgress})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPartsLinkByNameCreatesInventoryRecords(t *testing.T) {
	requests, equipment, parts, svc := newRequestService(t)
	eqID := equipment.add(entities.Equipment{Name: "AC", TagNumber: "T-5"})

	created, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityMedium,
	})
	require.NoError(t, err)
	requests.requests[created.ID].ApprovalStatus = constants.ApprovalApproved

	updated, err := svc.Update(context.Background(), 9, authz.RoleSupervisor, created.ID,
		dto.UpdateServiceRequestDTO{Parts: []dto.RequestPartDTO{
			{Name: "Compressor belt", Quantity: 2, UnitCost: 15},
			{Name: "compressor belt", Quantity: 1, UnitCost: 15},
		}})
	require.NoError(t, err)
	require.Len(t, updated.Parts, 2)

	// Case-insensitive names resolve to the same inventory record.
	require.NotNil(t, updated.Parts[0].SparePartID)
	require.NotNil(t, updated.Parts[1].SparePartID)
	assert.Equal(t, *updated.Parts[0].SparePartID, *updated.Parts[1].SparePartID)
	assert.Equal(t, 0, parts.stock(*updated.Parts[0].SparePartID))
}

func TestBulkCompletePreventive(t *testing.T) {
	requests, equipment, _, svc := newRequestService(t)
	locID := uint64(4)
	eq1 := equipment.add(entities.Equipment{Name: "AHU-1", TagNumber: "T-10", LocationID: &locID})
	eq2 := equipment.add(entities.Equipment{Name: "AHU-2", TagNumber: "T-11", LocationID: &locID})

	for _, id := range []uint64{eq1, eq2} {
		_, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
			EquipmentID: id,
			RequestType: constants.RequestTypePreventive,
			Priority:    constants.PriorityLow,
		})
		require.NoError(t, err)
	}
	// A corrective ticket must not be touched.
	corrective, err := svc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eq1,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityHigh,
	})
	require.NoError(t, err)

	_, err = svc.BulkCompletePreventive(context.Background(), authz.RoleTechnician,
		dto.BulkCompleteDTO{LocationID: locID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	date := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	report, err := svc.BulkCompletePreventive(context.Background(), authz.RoleSupervisor,
		dto.BulkCompleteDTO{LocationID: locID, MaintenanceDate: &date})
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Affected)

	assert.Equal(t, date, equipment.stamped[eq1])
	assert.Equal(t, date, equipment.stamped[eq2])
	assert.Equal(t, constants.WorkPending, requests.requests[corrective.ID].WorkStatus)

	// Idempotent: nothing left to complete on the second run.
	report, err = svc.BulkCompletePreventive(context.Background(), authz.RoleSupervisor,
		dto.BulkCompleteDTO{LocationID: locID, MaintenanceDate: &date})
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Affected)
}
