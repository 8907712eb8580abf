package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLocationRepo struct {
	nextID    uint64
	items     map[uint64]*entities.Location
	findCalls int
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{items: make(map[uint64]*entities.Location)}
}

func (f *fakeLocationRepo) add(campus, name string) uint64 {
	f.nextID++
	f.items[f.nextID] = &entities.Location{ID: f.nextID, Campus: campus, Name: name}
	return f.nextID
}

func (f *fakeLocationRepo) List(ctx context.Context, filter types.Filter) ([]entities.Location, uint64, error) {
	var out []entities.Location
	for _, l := range f.items {
		out = append(out, *l)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeLocationRepo) Find(ctx context.Context, id uint64) (*entities.Location, error) {
	f.findCalls++
	l, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLocationRepo) FindByCampusAndName(ctx context.Context, campus, name string) (*entities.Location, error) {
	for _, l := range f.items {
		if strings.EqualFold(l.Campus, campus) && strings.EqualFold(l.Name, name) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLocationRepo) Create(ctx context.Context, d dto.CreateLocationDTO) (uint64, error) {
	return f.add(d.Campus, d.Name), nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, id uint64, d dto.UpdateLocationDTO) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (f *fakeLocationRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newPortFixture(t *testing.T) (*fakeEquipmentRepo, *fakeLocationRepo, EquipmentPortServiceInterface) {
	t.Helper()
	equipment := newFakeEquipmentRepo()
	locations := newFakeLocationRepo()
	svc := NewEquipmentPortService(equipment, locations, &fakeTxManager{}, 0, zap.NewNop())
	return equipment, locations, svc
}

func TestImportCSVHappyPath(t *testing.T) {
	equipment, locations, svc := newPortFixture(t)
	locations.add("Main", "Building A")

	file := strings.Join([]string{
		"Name,Tag Number,Campus,Location,Last Maintenance,Maintenance Interval",
		"AHU-1,T-001,Main,Building A,2026-01-15,6 months",
		"Pump-2,T-002,,,,",
	}, "\n")

	report, err := svc.Import(context.Background(), "inventory.csv", strings.NewReader(file))
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 2, report.Imported)
	assert.Len(t, equipment.items, 2)

	imported, err := equipment.FindByTag(context.Background(), "T-001")
	require.NoError(t, err)
	require.NotNil(t, imported.LocationID)
	require.NotNil(t, imported.LastMaintenance)
	assert.Equal(t, "6 months", imported.MaintenanceInterval)
}

func TestImportIsAllOrNothing(t *testing.T) {
	equipment, _, svc := newPortFixture(t)

	file := strings.Join([]string{
		"name,tag_number,maintenance_interval",
		"Good row,T-001,6 months",
		",T-002,1 year",
		"Bad interval,T-003,whenever",
		"Duplicate,T-001,",
	}, "\n")

	report, err := svc.Import(context.Background(), "inventory.csv", strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Errors, 3)
	assert.Contains(t, report.Errors[0], "row 3")
	assert.Contains(t, report.Errors[1], "row 4")
	assert.Contains(t, report.Errors[2], "row 5")

	// Nothing landed in inventory.
	assert.Empty(t, equipment.items)
}

func TestImportRejectsExistingTag(t *testing.T) {
	equipment, _, svc := newPortFixture(t)
	equipment.add(entities.Equipment{Name: "Existing", TagNumber: "T-001"})

	file := "name,tag_number\nNew item,T-001\n"
	report, err := svc.Import(context.Background(), "inventory.csv", strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "already exists")
}

func TestImportRejectsUnknownFileType(t *testing.T) {
	_, _, svc := newPortFixture(t)
	_, err := svc.Import(context.Background(), "inventory.pdf", strings.NewReader("x"))
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestImportRequiresHeaderColumns(t *testing.T) {
	_, _, svc := newPortFixture(t)
	file := "model,manufacturer\nX,Y\n"
	_, err := svc.Import(context.Background(), "inventory.csv", strings.NewReader(file))
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "tag_number")
}

func TestExportCSVIncludesDerivedStatus(t *testing.T) {
	equipment, _, svc := newPortFixture(t)
	last := time.Now().AddDate(-1, 0, 0)
	equipment.add(entities.Equipment{
		Name:                "Old boiler",
		TagNumber:           "T-009",
		LastMaintenance:     &last,
		MaintenanceInterval: "6 months",
	})

	data, name, err := svc.ExportCSV(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".csv"))

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	statusCol := -1
	for i, h := range records[0] {
		if h == "maintenance_status" {
			statusCol = i
		}
	}
	require.GreaterOrEqual(t, statusCol, 0)
	assert.Equal(t, "overdue", records[1][statusCol])
}

func TestExportXLSXWritesWorkbook(t *testing.T) {
	equipment, _, svc := newPortFixture(t)
	equipment.add(entities.Equipment{Name: "Fan", TagNumber: "T-010"})

	data, name, err := svc.ExportXLSX(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".xlsx"))
	assert.NotEmpty(t, data)
}
