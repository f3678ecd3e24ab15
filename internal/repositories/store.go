package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/propworks/compliance-service/internal/constants"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/utils"
)

/*
   Store is the in-memory entity store for the whole portfolio. It enforces
   the engine's concurrency contract:

     • mutations serialize per property: UpdateProperty clones the property,
       runs the mutator on the clone, and swaps the clone in only on success,
       so no reader or concurrent writer ever observes a half-applied update;
     • reads go through Snapshot(), a consistent deep copy taken under a
       read lock, and never block for the duration of a query.

   The store is the single place global state lives; everything else receives
   it by reference.
*/
type Store struct {
	mu         sync.RWMutex
	properties map[uuid.UUID]*models.Property
	schedules  map[uuid.UUID]*models.PpmSchedule

	jobRefSeq int64

	// propLocks serializes writers per property so a copy-on-write
	// transaction cannot race another writer on the same aggregate.
	propMu    sync.Mutex
	propLocks map[uuid.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		properties: make(map[uuid.UUID]*models.Property),
		schedules:  make(map[uuid.UUID]*models.PpmSchedule),
		jobRefSeq:  100000,
		propLocks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) lockFor(propertyID uuid.UUID) *sync.Mutex {
	s.propMu.Lock()
	defer s.propMu.Unlock()
	l, ok := s.propLocks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		s.propLocks[propertyID] = l
	}
	return l
}

/*──────────────────────────── properties ────────────────────────────*/

func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.properties[p.ID]; exists {
		return fmt.Errorf("property %s already exists", p.ID)
	}
	for _, item := range p.ComplianceItems {
		for _, other := range p.ComplianceItems {
			if item != other && item.Type == other.Type &&
				!item.Superseded && !other.Superseded {
				return fmt.Errorf("duplicate live compliance item for type %s: %w",
					item.Type, utils.ErrLinkIntegrity)
			}
		}
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.RowVersion = 1
	s.properties[p.ID] = p.Clone()
	return nil
}

func (s *Store) GetProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (s *Store) ListProperties(ctx context.Context) ([]*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteProperty removes the property and, through ownership, every child
// entity recorded against it.
func (s *Store) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[id]; !ok {
		return utils.ErrNotFound
	}
	delete(s.properties, id)
	return nil
}

// UpdateProperty is the copy-on-write transaction scope for one property's
// sub-state. The mutator receives a deep clone; if it returns an error the
// clone is discarded and the stored property is untouched. On success the
// clone is swapped in with a bumped row version.
func (s *Store) UpdateProperty(
	ctx context.Context,
	id uuid.UUID,
	mutate func(p *models.Property) error,
) (*models.Property, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	current, ok := s.properties[id]
	s.mu.RUnlock()
	if !ok {
		return nil, utils.ErrNotFound
	}

	staged := current.Clone()
	if err := mutate(staged); err != nil {
		return nil, err
	}

	staged.RowVersion = current.RowVersion + 1
	staged.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.properties[id] = staged
	s.mu.Unlock()

	return staged.Clone(), nil
}

/*──────────────────────────── schedules ────────────────────────────*/

func (s *Store) CreateSchedule(ctx context.Context, sch *models.PpmSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.schedules[sch.ID]; exists {
		return fmt.Errorf("schedule %s already exists", sch.ID)
	}
	sch.CreatedAt = time.Now().UTC()
	cp := *sch
	s.schedules[sch.ID] = &cp
	return nil
}

func (s *Store) GetSchedule(ctx context.Context, id uuid.UUID) (*models.PpmSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sch, ok := s.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *sch
	return &cp, nil
}

func (s *Store) ListSchedules(ctx context.Context) ([]*models.PpmSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PpmSchedule, 0, len(s.schedules))
	for _, sch := range s.schedules {
		cp := *sch
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindPropertyIDByJob locates the property owning a job. Returns
// uuid.Nil and ErrNotFound when no property carries the job.
func (s *Store) FindPropertyIDByJob(ctx context.Context, jobID uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		for _, j := range p.MaintenanceJobs {
			if j.ID == jobID {
				return p.ID, nil
			}
		}
	}
	return uuid.Nil, utils.ErrNotFound
}

/*──────────────────────────── refs & snapshots ────────────────────────────*/

// NextJobRef hands out the next human-readable job reference.
func (s *Store) NextJobRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobRefSeq++
	return fmt.Sprintf("%s-%d", constants.JobRefPrefix, s.jobRefSeq)
}

// Snapshot captures a consistent deep copy of the whole store.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Properties: make([]*models.Property, 0, len(s.properties)),
		Schedules:  make([]*models.PpmSchedule, 0, len(s.schedules)),
		JobRefSeq:  s.jobRefSeq,
		TakenAt:    time.Now().UTC(),
	}
	for _, p := range s.properties {
		snap.Properties = append(snap.Properties, p.Clone())
	}
	for _, sch := range s.schedules {
		cp := *sch
		snap.Schedules = append(snap.Schedules, &cp)
	}
	sort.Slice(snap.Properties, func(i, j int) bool {
		return snap.Properties[i].Name < snap.Properties[j].Name
	})
	sort.Slice(snap.Schedules, func(i, j int) bool {
		return snap.Schedules[i].Name < snap.Schedules[j].Name
	})
	return snap
}

// Restore replaces the whole store contents from a previously saved
// snapshot. Used once at boot, before any writer is running.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.properties = make(map[uuid.UUID]*models.Property, len(snap.Properties))
	for _, p := range snap.Properties {
		s.properties[p.ID] = p.Clone()
	}
	s.schedules = make(map[uuid.UUID]*models.PpmSchedule, len(snap.Schedules))
	for _, sch := range snap.Schedules {
		cp := *sch
		s.schedules[sch.ID] = &cp
	}
	if snap.JobRefSeq > s.jobRefSeq {
		s.jobRefSeq = snap.JobRefSeq
	}
}
