package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

// RoleFilterAll disables role filtering in FilterMembers.
const RoleFilterAll = "all"

// DirectoryService loads, filters and saves member profiles. It owns the
// in-memory directory cache; nothing else writes to it.
type DirectoryService struct {
	store ports.DocumentStore
	log   zerolog.Logger
	now   func() time.Time

	// seq tags every load and local write; a load response is applied only if
	// no later load or write has been applied already.
	seq atomic.Uint64

	mu      sync.RWMutex
	members []domain.MemberProfile
	applied uint64
}

// NewDirectoryService returns a DirectoryService with an empty cache.
func NewDirectoryService(store ports.DocumentStore, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		store: store,
		log:   log.With().Str("component", "directory").Logger(),
		now:   time.Now,
	}
}

// LoadAll fetches every profile ordered by display name. On failure the
// cached list is kept and returned together with the error, so a failed
// refresh degrades to stale data rather than an empty directory.
func (s *DirectoryService) LoadAll(ctx context.Context) ([]domain.MemberProfile, error) {
	seq := s.seq.Add(1)

	docs, err := s.store.QueryCollection(ctx, domain.CollectionUsers, "display_name")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load members, keeping cached directory")
		return s.Members(), fmt.Errorf("load members: %w", err)
	}

	members := make([]domain.MemberProfile, 0, len(docs))
	for _, doc := range docs {
		var m domain.MemberProfile
		if err := docmap.Decode(doc, &m); err != nil {
			s.log.Warn().Err(err).Interface("id", doc[docmap.IDField]).Msg("skipping undecodable profile")
			continue
		}
		members = append(members, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		metrics.StaleLoadsDiscardedTotal.WithLabelValues("directory").Inc()
		s.log.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("discarding stale member load")
		return cloneMembers(s.members), nil
	}
	s.members = members
	s.applied = seq
	return cloneMembers(members), nil
}

// Members returns a copy of the cached directory.
func (s *DirectoryService) Members() []domain.MemberProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMembers(s.members)
}

// Filter applies FilterMembers to the cached directory.
func (s *DirectoryService) Filter(search, role string) []domain.MemberProfile {
	return FilterMembers(s.Members(), search, role)
}

// FilterMembers keeps members whose display name or email contains search
// (case-insensitive) and, unless role is "all" or empty, whose role tag equals
// role ignoring case.
func FilterMembers(members []domain.MemberProfile, search, role string) []domain.MemberProfile {
	needle := strings.ToLower(search)
	out := make([]domain.MemberProfile, 0, len(members))
	for _, m := range members {
		if role != "" && !strings.EqualFold(role, RoleFilterAll) && !strings.EqualFold(string(m.Role), role) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.DisplayName), needle) &&
			!strings.Contains(strings.ToLower(m.Email), needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Get reads a single profile from the store.
func (s *DirectoryService) Get(ctx context.Context, id string) (*domain.MemberProfile, error) {
	doc, err := s.store.GetDocument(ctx, domain.CollectionUsers, id)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	var m domain.MemberProfile
	if err := docmap.Decode(doc, &m); err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// Save creates a profile when existingID is empty, otherwise merges form into
// the stored profile. Validation and authorization run before any write.
func (s *DirectoryService) Save(ctx context.Context, actor domain.Actor, existingID string, form domain.MemberForm) (*domain.MemberProfile, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(actor, form); err != nil {
		return nil, err
	}

	if existingID == "" {
		return s.create(ctx, actor, form)
	}
	if err := s.guardSystemAdmin(ctx, actor, existingID, "edit system admin"); err != nil {
		return nil, err
	}
	return s.update(ctx, actor, existingID, form)
}

// SetActive toggles a profile between persisted-active and persisted-inactive.
func (s *DirectoryService) SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.MemberProfile, error) {
	if err := domain.RequireLevel(actor, domain.LevelLeadership, "set member active"); err != nil {
		s.denied("set_member_active", actor, err)
		return nil, err
	}
	if err := s.guardSystemAdmin(ctx, actor, id, "deactivate system admin"); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	partial := domain.Document{
		"is_active":  active,
		"updated_at": now,
		"updated_by": actor.ID,
	}
	if err := s.store.UpdateDocument(ctx, domain.CollectionUsers, id, partial); err != nil {
		return nil, fmt.Errorf("set member active: %w", err)
	}

	profile, err := s.refreshCached(ctx, id, func(m *domain.MemberProfile) {
		m.IsActive = active
		m.UpdatedAt = now
		m.UpdatedBy = actor.ID
	})
	if err != nil {
		return nil, err
	}
	metrics.MemberSavesTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("member_id", id).Bool("active", active).Str("actor", actor.ID).Msg("member activity changed")
	return profile, nil
}

func (s *DirectoryService) authorize(actor domain.Actor, form domain.MemberForm) error {
	if err := domain.RequireLevel(actor, domain.LevelLeadership, "save member"); err != nil {
		s.denied("save_member", actor, err)
		return err
	}
	// The system administrator tag is an identity class, never granted by rank.
	if form.Role != nil && *form.Role == domain.RoleSudoAdmin {
		if err := domain.RequireSystemAdmin(actor, "assign system admin"); err != nil {
			s.denied("assign_sudo_admin", actor, err)
			return err
		}
	}
	return nil
}

// guardSystemAdmin refuses changes to a profile that currently holds the
// system administrator role unless the actor is one too.
func (s *DirectoryService) guardSystemAdmin(ctx context.Context, actor domain.Actor, id, op string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Role != domain.RoleSudoAdmin {
		return nil
	}
	if err := domain.RequireSystemAdmin(actor, op); err != nil {
		s.denied("modify_sudo_admin", actor, err)
		return err
	}
	return nil
}

func (s *DirectoryService) denied(op string, actor domain.Actor, err error) {
	metrics.AuthorizationDeniedTotal.WithLabelValues(op).Inc()
	s.log.Warn().Err(err).Str("actor", actor.ID).Str("role", string(actor.Role)).Msg("operation denied")
}

func (s *DirectoryService) create(ctx context.Context, actor domain.Actor, form domain.MemberForm) (*domain.MemberProfile, error) {
	now := s.now().UTC()
	profile := domain.MemberProfile{
		DisplayName:           strings.TrimSpace(form.DisplayName),
		Email:                 strings.TrimSpace(form.Email),
		Phone:                 form.Phone,
		Address:               form.Address,
		EmergencyContactName:  form.EmergencyContactName,
		EmergencyContactPhone: form.EmergencyContactPhone,
		Role:                  domain.RoleGuest,
		JoinDate:              form.JoinDate,
		Notes:                 form.Notes,
		PhotoURL:              form.PhotoURL,
		IsActive:              true,
		CreatedAt:             now,
		CreatedBy:             actor.ID,
		UpdatedAt:             now,
		UpdatedBy:             actor.ID,
	}
	if form.Role != nil {
		profile.Role = *form.Role
	}
	if form.IsActive != nil {
		profile.IsActive = *form.IsActive
	}

	doc, err := docmap.Encode(profile)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	id, err := s.store.CreateDocument(ctx, domain.CollectionUsers, doc)
	if err != nil {
		s.log.Error().Err(err).Str("actor", actor.ID).Msg("failed to create member")
		return nil, fmt.Errorf("create member: %w", err)
	}
	profile.ID = id

	s.upsertCached(profile)
	metrics.MemberSavesTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("member_id", id).Str("actor", actor.ID).Msg("member created")
	return &profile, nil
}

func (s *DirectoryService) update(ctx context.Context, actor domain.Actor, id string, form domain.MemberForm) (*domain.MemberProfile, error) {
	now := s.now().UTC()
	partial := domain.Document{
		"display_name":            strings.TrimSpace(form.DisplayName),
		"email":                   strings.TrimSpace(form.Email),
		"phone":                   form.Phone,
		"address":                 form.Address,
		"emergency_contact_name":  form.EmergencyContactName,
		"emergency_contact_phone": form.EmergencyContactPhone,
		"notes":                   form.Notes,
		"photo_url":               form.PhotoURL,
		"updated_at":              now,
		"updated_by":              actor.ID,
	}
	if !form.JoinDate.IsZero() {
		partial["join_date"] = form.JoinDate
	}
	if form.Role != nil {
		partial["role"] = string(*form.Role)
	}
	if form.IsActive != nil {
		partial["is_active"] = *form.IsActive
	}

	if err := s.store.UpdateDocument(ctx, domain.CollectionUsers, id, partial); err != nil {
		s.log.Error().Err(err).Str("member_id", id).Str("actor", actor.ID).Msg("failed to update member")
		return nil, fmt.Errorf("update member: %w", err)
	}

	profile, err := s.refreshCached(ctx, id, func(m *domain.MemberProfile) {
		applyForm(m, form)
		m.UpdatedAt = now
		m.UpdatedBy = actor.ID
	})
	if err != nil {
		return nil, err
	}
	metrics.MemberSavesTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("member_id", id).Str("actor", actor.ID).Msg("member updated")
	return profile, nil
}

// refreshCached applies mutate to the cached copy of id (or, when the profile
// was never loaded, to a freshly read copy) and stores the result in the cache.
func (s *DirectoryService) refreshCached(ctx context.Context, id string, mutate func(*domain.MemberProfile)) (*domain.MemberProfile, error) {
	profile, ok := s.cached(id)
	if !ok {
		fetched, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		// The fetch already reflects the write.
		s.upsertCached(*fetched)
		return fetched, nil
	}
	mutate(&profile)
	s.upsertCached(profile)
	return &profile, nil
}

func applyForm(m *domain.MemberProfile, form domain.MemberForm) {
	m.DisplayName = strings.TrimSpace(form.DisplayName)
	m.Email = strings.TrimSpace(form.Email)
	m.Phone = form.Phone
	m.Address = form.Address
	m.EmergencyContactName = form.EmergencyContactName
	m.EmergencyContactPhone = form.EmergencyContactPhone
	m.Notes = form.Notes
	m.PhotoURL = form.PhotoURL
	if !form.JoinDate.IsZero() {
		m.JoinDate = form.JoinDate
	}
	if form.Role != nil {
		m.Role = *form.Role
	}
	if form.IsActive != nil {
		m.IsActive = *form.IsActive
	}
}

func (s *DirectoryService) cached(id string) (domain.MemberProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.MemberProfile{}, false
}

// upsertCached overwrites the cached profile with the same id, or appends it.
// It also marks the cache as newer than any load still in flight.
func (s *DirectoryService) upsertCached(profile domain.MemberProfile) {
	seq := s.seq.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = seq
	for i := range s.members {
		if s.members[i].ID == profile.ID {
			s.members[i] = profile
			return
		}
	}
	s.members = append(s.members, profile)
}

func cloneMembers(in []domain.MemberProfile) []domain.MemberProfile {
	out := make([]domain.MemberProfile, len(in))
	copy(out, in)
	return out
}
