package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

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

type fakeJobOrderRepo struct {
	nextID uint64
	orders map[uint64]*entities.JobOrder
	items  map[uint64][]entities.JobOrderItem
}

func newFakeJobOrderRepo() *fakeJobOrderRepo {
	return &fakeJobOrderRepo{
		orders: make(map[uint64]*entities.JobOrder),
		items:  make(map[uint64][]entities.JobOrderItem),
	}
}

func (f *fakeJobOrderRepo) List(ctx context.Context, filter types.Filter) ([]entities.JobOrder, uint64, error) {
	var out []entities.JobOrder
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeJobOrderRepo) Find(ctx context.Context, id uint64) (*entities.JobOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeJobOrderRepo) CreateTx(ctx context.Context, tx pgx.Tx, order entities.JobOrder) (uint64, error) {
	f.nextID++
	order.ID = f.nextID
	f.orders[f.nextID] = &order
	return f.nextID, nil
}

func (f *fakeJobOrderRepo) AddItemTx(ctx context.Context, tx pgx.Tx, item entities.JobOrderItem) error {
	f.items[item.JobOrderID] = append(f.items[item.JobOrderID], item)
	return nil
}

func (f *fakeJobOrderRepo) ListItems(ctx context.Context, jobOrderID uint64) ([]entities.JobOrderItem, error) {
	return f.items[jobOrderID], nil
}

func (f *fakeJobOrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	o.Status = status
	return nil
}

func TestJobOrderCreateAssignsTicketPerItem(t *testing.T) {
	repo := newFakeJobOrderRepo()
	tickets := newFakeTickets()
	svc := NewJobOrderService(repo, tickets, &fakeTxManager{}, zap.NewNop())

	order, err := svc.Create(context.Background(), 3, dto.CreateJobOrderDTO{
		Campus:      "Main",
		SubLocation: "Workshop",
		Items: []dto.JobOrderItemDTO{
			{EquipmentName: "Drill press"},
			{EquipmentName: "Lathe"},
			{EquipmentName: "Grinder"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.JobOrderSubmitted, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "JO-"))
	require.Len(t, order.Items, 3)

	year := time.Now().Year()
	seen := make(map[string]bool)
	for i, item := range order.Items {
		assert.Equal(t, i+1, item.Position)
		assert.Equal(t, repositories.FormatTicketID(year, i+1), item.TicketNumber)
		assert.False(t, seen[item.TicketNumber], "ticket %s issued twice", item.TicketNumber)
		seen[item.TicketNumber] = true
	}
}

func TestJobOrderTicketsShareCounterWithRequests(t *testing.T) {
	jobOrders := newFakeJobOrderRepo()
	tickets := newFakeTickets()
	jobSvc := NewJobOrderService(jobOrders, tickets, &fakeTxManager{}, zap.NewNop())

	requests := newFakeRequestRepo()
	equipment := newFakeEquipmentRepo()
	eqID := equipment.add(entities.Equipment{Name: "AHU", TagNumber: "T-1"})
	reqSvc := NewServiceRequestService(requests, equipment, newFakeSparePartRepo(), tickets, &fakeTxManager{}, zap.NewNop())

	created, err := reqSvc.Create(context.Background(), 1, dto.CreateServiceRequestDTO{
		EquipmentID: eqID,
		RequestType: constants.RequestTypeCorrective,
		Priority:    constants.PriorityLow,
	})
	require.NoError(t, err)

	order, err := jobSvc.Create(context.Background(), 1, dto.CreateJobOrderDTO{
		Campus:      "Main",
		SubLocation: "Lab",
		Items:       []dto.JobOrderItemDTO{{EquipmentName: "Oven"}},
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, repositories.FormatTicketID(year, 1), created.TicketID)
	assert.Equal(t, repositories.FormatTicketID(year, 2), order.Items[0].TicketNumber)
}

func TestJobOrderComplete(t *testing.T) {
	repo := newFakeJobOrderRepo()
	svc := NewJobOrderService(repo, newFakeTickets(), &fakeTxManager{}, zap.NewNop())

	order, err := svc.Create(context.Background(), 3, dto.CreateJobOrderDTO{
		Campus:      "North",
		SubLocation: "Gym",
		Items:       []dto.JobOrderItemDTO{{EquipmentName: "Treadmill"}},
	})
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobOrderCompleted, done.Status)
}

// The year-scoped counter must never hand out the same number twice, even
// under concurrent submitters.
func TestTicketSequenceUniqueUnderConcurrency(t *testing.T) {
	tickets := struct {
		sync.Mutex
		*fakeTickets
	}{fakeTickets: newFakeTickets()}

	const workers = 32
	results := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickets.Lock()
			seq, err := tickets.NextSequence(context.Background(), nil, 26)
			tickets.Unlock()
			assert.NoError(t, err)
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for seq := range results {
		assert.False(t, seen[seq], "sequence %d issued twice", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, workers)
}
