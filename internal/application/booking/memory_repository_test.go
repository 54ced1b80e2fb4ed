package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// memoryStore backs the scenario tests. Aggregates are kept by pointer and
// every save drains their pending events into a single journal.
type memoryStore struct {
	mu            sync.Mutex
	slots         map[uuid.UUID]*catalog.Slot
	workOrders    map[uuid.UUID]*booking.WorkOrder
	releaseOrders map[uuid.UUID]*release.ReleaseOrder
	invoices      map[uuid.UUID]*finance.Invoice
	deployments   map[uuid.UUID]*deployment.Deployment
	events        []shared.DomainEvent
	seq           int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		slots:         make(map[uuid.UUID]*catalog.Slot),
		workOrders:    make(map[uuid.UUID]*booking.WorkOrder),
		releaseOrders: make(map[uuid.UUID]*release.ReleaseOrder),
		invoices:      make(map[uuid.UUID]*finance.Invoice),
		deployments:   make(map[uuid.UUID]*deployment.Deployment),
	}
}

func (m *memoryStore) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		&memorySlots{m},
		&memoryWorkOrders{m},
		&memoryReleaseOrders{m},
		&memoryInvoices{m},
		&memoryDeployments{m},
	)
}

func (m *memoryStore) record(agg interface{ PullDomainEvents() []shared.DomainEvent }) {
	m.events = append(m.events, agg.PullDomainEvents()...)
}

func (m *memoryStore) next(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("%s-%05d", prefix, m.seq)
}

func (m *memoryStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType()
	}
	return out
}

func (m *memoryStore) addSlot(slot *catalog.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot.ID] = slot
}

func paginate[T any](items []T, filter shared.Filter) []T {
	start := filter.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type memorySlots struct{ m *memoryStore }

func (r *memorySlots) FindByID(_ context.Context, id uuid.UUID) (*catalog.Slot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.slots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memorySlots) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Slot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*catalog.Slot
	for _, id := range ids {
		if s, ok := r.m.slots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySlots) FindAll(_ context.Context, filter shared.Filter) ([]*catalog.Slot, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*catalog.Slot
	for _, s := range r.m.slots {
		if v, ok := filter.Filters["media_type"]; ok && string(s.MediaType) != v {
			continue
		}
		if v, ok := filter.Filters["status"]; ok && string(s.Status) != v {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, filter), int64(len(out)), nil
}

func (r *memorySlots) Save(_ context.Context, slot *catalog.Slot) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.slots[slot.ID] = slot
	r.m.record(slot)
	return nil
}

func (r *memorySlots) SaveWithLock(ctx context.Context, slot *catalog.Slot) error {
	slot.IncrementVersion()
	return r.Save(ctx, slot)
}

type memoryWorkOrders struct{ m *memoryStore }

func (r *memoryWorkOrders) FindByID(_ context.Context, id uuid.UUID) (*booking.WorkOrder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.workOrders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memoryWorkOrders) FindAll(_ context.Context, filter shared.Filter) ([]*booking.WorkOrder, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*booking.WorkOrder
	for _, o := range r.m.workOrders {
		if v, ok := filter.Filters["client_id"]; ok && o.ClientID != v {
			continue
		}
		if v, ok := filter.Filters["status"]; ok && string(o.Status) != v {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, filter), int64(len(out)), nil
}

func (r *memoryWorkOrders) FindByStatus(_ context.Context, status booking.WorkOrderStatus) ([]*booking.WorkOrder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*booking.WorkOrder
	for _, o := range r.m.workOrders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryWorkOrders) Save(_ context.Context, order *booking.WorkOrder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.workOrders[order.ID] = order
	r.m.record(order)
	return nil
}

func (r *memoryWorkOrders) SaveWithLock(ctx context.Context, order *booking.WorkOrder) error {
	order.IncrementVersion()
	return r.Save(ctx, order)
}

func (r *memoryWorkOrders) NextNumber(_ context.Context) (string, error) {
	return r.m.next("WO"), nil
}

type memoryReleaseOrders struct{ m *memoryStore }

func (r *memoryReleaseOrders) FindByID(_ context.Context, id uuid.UUID) (*release.ReleaseOrder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.releaseOrders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memoryReleaseOrders) FindByWorkOrder(_ context.Context, workOrderID uuid.UUID) (*release.ReleaseOrder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.releaseOrders {
		if o.WorkOrderID == workOrderID {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryReleaseOrders) FindAll(_ context.Context, filter shared.Filter) ([]*release.ReleaseOrder, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*release.ReleaseOrder
	for _, o := range r.m.releaseOrders {
		if v, ok := filter.Filters["status"]; ok && string(o.Status) != v {
			continue
		}
		if v, ok := filter.Filters["client_id"]; ok && o.ClientID != v {
			continue
		}
		if v, ok := filter.Filters["work_order_id"]; ok && o.WorkOrderID != v {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, filter), int64(len(out)), nil
}

func (r *memoryReleaseOrders) FindReadyForLane(_ context.Context, lane release.Lane, filter shared.Filter) ([]*release.ReleaseOrder, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*release.ReleaseOrder
	for _, o := range r.m.releaseOrders {
		if o.PendingIn(lane) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return paginate(out, filter), int64(len(out)), nil
}

func (r *memoryReleaseOrders) Save(_ context.Context, order *release.ReleaseOrder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.releaseOrders[order.ID] = order
	r.m.record(order)
	return nil
}

func (r *memoryReleaseOrders) SaveWithLock(ctx context.Context, order *release.ReleaseOrder) error {
	order.IncrementVersion()
	return r.Save(ctx, order)
}

func (r *memoryReleaseOrders) NextNumber(_ context.Context) (string, error) {
	return r.m.next("RO"), nil
}

type memoryInvoices struct{ m *memoryStore }

func (r *memoryInvoices) FindByID(_ context.Context, id uuid.UUID) (*finance.Invoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	inv, ok := r.m.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return inv, nil
}

func (r *memoryInvoices) FindByWorkOrder(_ context.Context, workOrderID uuid.UUID) ([]*finance.Invoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*finance.Invoice
	for _, inv := range r.m.invoices {
		if inv.WorkOrderID == workOrderID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryInvoices) FindByReleaseOrder(_ context.Context, releaseOrderID uuid.UUID) ([]*finance.Invoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*finance.Invoice
	for _, inv := range r.m.invoices {
		if inv.ReleaseOrderID != nil && *inv.ReleaseOrderID == releaseOrderID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memoryInvoices) Save(_ context.Context, invoice *finance.Invoice) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.invoices[invoice.ID] = invoice
	r.m.record(invoice)
	return nil
}

func (r *memoryInvoices) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	invoice.IncrementVersion()
	return r.Save(ctx, invoice)
}

func (r *memoryInvoices) NextNumber(_ context.Context, invoiceType finance.InvoiceType) (string, error) {
	if invoiceType == finance.InvoiceTypeProforma {
		return r.m.next("PI"), nil
	}
	return r.m.next("TI"), nil
}

type memoryDeployments struct{ m *memoryStore }

func (r *memoryDeployments) FindByID(_ context.Context, id uuid.UUID) (*deployment.Deployment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.deployments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return d, nil
}

func (r *memoryDeployments) FindLiveByItem(_ context.Context, releaseOrderItemID uuid.UUID) (*deployment.Deployment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, d := range r.m.deployments {
		if d.ReleaseOrderItemID == releaseOrderItemID && d.IsLive() {
			return d, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryDeployments) FindByReleaseOrder(_ context.Context, releaseOrderID uuid.UUID) ([]*deployment.Deployment, error) {
	return r.filter(func(d *deployment.Deployment) bool { return d.ReleaseOrderID == releaseOrderID }), nil
}

func (r *memoryDeployments) FindByWorkOrder(_ context.Context, workOrderID uuid.UUID) ([]*deployment.Deployment, error) {
	return r.filter(func(d *deployment.Deployment) bool { return d.WorkOrderID == workOrderID }), nil
}

func (r *memoryDeployments) FindExpiring(_ context.Context, now time.Time, limit int) ([]*deployment.Deployment, error) {
	out := r.filter(func(d *deployment.Deployment) bool { return deployment.IsExpired(d, now) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryDeployments) filter(keep func(*deployment.Deployment) bool) []*deployment.Deployment {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*deployment.Deployment
	for _, d := range r.m.deployments {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeployedAt.After(out[j].DeployedAt) })
	return out
}

func (r *memoryDeployments) Save(_ context.Context, d *deployment.Deployment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.deployments[d.ID] = d
	r.m.record(d)
	return nil
}

func (r *memoryDeployments) SaveWithLock(ctx context.Context, d *deployment.Deployment) error {
	d.IncrementVersion()
	return r.Save(ctx, d)
}
