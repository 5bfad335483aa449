package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== IN-MEMORY FILE STORE =====

type memFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (s *memFileStore) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := fmt.Sprintf("%d_%s", s.seq, storage.SanitizeFilename(originalName))
	s.files[name] = data
	return name, nil
}

func (s *memFileStore) Open(_ context.Context, storedName string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[storedName]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memFileStore) Delete(_ context.Context, storedName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, storedName)
	return nil
}

// ===== IN-MEMORY USER REPOSITORY =====

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*models.User)}
}

func (r *mockUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
		if u.Username != nil && user.Username != nil && *u.Username == *user.Username {
			return repositories.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *mockUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username != nil && *u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) Update(_ context.Context, _ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *mockUserRepo) ListDoctors(_ context.Context, _ *gorm.DB) ([]*models.DoctorSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var doctors []*models.DoctorSummary
	for _, u := range r.users {
		if u.Role == models.RoleDoctor {
			doctors = append(doctors, &models.DoctorSummary{
				ID:        u.ID,
				Name:      u.Name,
				Specialty: u.Specialty,
				Hospital:  u.Hospital,
			})
		}
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Name < doctors[j].Name })
	return doctors, nil
}

func (r *mockUserRepo) CountByRole(_ context.Context, _ *gorm.DB) (map[models.UserRole]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.UserRole]int64)
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}

// ===== IN-MEMORY CONSULTATION REPOSITORY =====

type mockConsultationRepo struct {
	mu            sync.Mutex
	consultations map[uint]*models.Consultation
	nextID        uint
}

func newMockConsultationRepo() *mockConsultationRepo {
	return &mockConsultationRepo{consultations: make(map[uint]*models.Consultation)}
}

func (r *mockConsultationRepo) Create(_ context.Context, _ *gorm.DB, c *models.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	clone := *c
	r.consultations[c.ID] = &clone
	return nil
}

func (r *mockConsultationRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consultations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *mockConsultationRepo) ListPending(_ context.Context, _ *gorm.DB) ([]*models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*models.Consultation
	for _, c := range r.consultations {
		if c.Status == models.StatusPending {
			clone := *c
			pending = append(pending, &clone)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (r *mockConsultationRepo) ListByPatient(_ context.Context, _ *gorm.DB, patientID uint, _ repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Consultation
	for _, c := range r.consultations {
		if c.PatientID == patientID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockConsultationRepo) ListByDoctor(_ context.Context, _ *gorm.DB, doctorID uint, _ repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Consultation
	for _, c := range r.consultations {
		if c.DoctorID != nil && *c.DoctorID == doctorID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockConsultationRepo) Claim(_ context.Context, _ *gorm.DB, id, doctorID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consultations[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if c.Status != models.StatusPending || c.DoctorID != nil {
		return repositories.ErrAlreadyClaimed
	}
	d := doctorID
	c.DoctorID = &d
	c.Status = models.StatusUnderReview
	return nil
}

func (r *mockConsultationRepo) Respond(_ context.Context, _ *gorm.DB, id, doctorID uint, response string, audioFilename *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consultations[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if c.Status != models.StatusUnderReview || c.DoctorID == nil || *c.DoctorID != doctorID {
		return repositories.ErrNotAssigned
	}
	c.DoctorResponse = &response
	if audioFilename != nil {
		c.AudioNoteFilename = audioFilename
	}
	c.Status = models.StatusReviewed
	return nil
}

func (r *mockConsultationRepo) CountByStatus(_ context.Context, _ *gorm.DB) (map[models.ConsultationStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.ConsultationStatus]int64)
	for _, c := range r.consultations {
		counts[c.Status]++
	}
	return counts, nil
}

// ===== IN-MEMORY CHAT REPOSITORY =====

type mockChatRepo struct {
	mu         sync.Mutex
	threads    map[uint]*models.ChatThread
	messages   map[uint][]*models.ChatMessage
	users      *mockUserRepo
	nextThread uint
	nextMsg    uint
}

func newMockChatRepo(users *mockUserRepo) *mockChatRepo {
	return &mockChatRepo{
		threads:  make(map[uint]*models.ChatThread),
		messages: make(map[uint][]*models.ChatMessage),
		users:    users,
	}
}

func (r *mockChatRepo) FindOrCreateThread(_ context.Context, _ *gorm.DB, patientID, doctorID uint) (*models.ChatThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.threads {
		if t.PatientID == patientID && t.DoctorID == doctorID {
			clone := *t
			return &clone, nil
		}
	}
	r.nextThread++
	thread := &models.ChatThread{
		ID:        r.nextThread,
		PatientID: patientID,
		DoctorID:  doctorID,
		CreatedAt: time.Now(),
	}
	r.threads[thread.ID] = thread
	clone := *thread
	return &clone, nil
}

func (r *mockChatRepo) GetThread(_ context.Context, _ *gorm.DB, id uint) (*models.ChatThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *mockChatRepo) ListThreadsByUser(_ context.Context, _ *gorm.DB, userID uint, role models.UserRole) ([]*models.ThreadSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ThreadSummary
	for _, t := range r.threads {
		match := t.PatientID == userID
		if role == models.RoleDoctor {
			match = t.DoctorID == userID
		}
		if match {
			out = append(out, &models.ThreadSummary{
				ID:        t.ID,
				PatientID: t.PatientID,
				DoctorID:  t.DoctorID,
				CreatedAt: t.CreatedAt,
			})
		}
	}
	return out, nil
}

func (r *mockChatRepo) CreateMessage(_ context.Context, _ *gorm.DB, m *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.threads[m.ThreadID]; !ok {
		return repositories.ErrNotFound
	}
	r.nextMsg++
	m.ID = r.nextMsg
	m.SentAt = time.Now()
	clone := *m
	r.messages[m.ThreadID] = append(r.messages[m.ThreadID], &clone)
	return nil
}

func (r *mockChatRepo) ListMessages(_ context.Context, _ *gorm.DB, threadID uint) ([]*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[threadID]
	out := make([]*models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (r *mockChatRepo) CountThreads(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.threads)), nil
}

func (r *mockChatRepo) CountMessages(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, msgs := range r.messages {
		n += int64(len(msgs))
	}
	return n, nil
}

// ===== IN-MEMORY HOUSEHOLD REPOSITORY =====

type mockHouseholdRepo struct {
	mu         sync.Mutex
	households map[uint]*models.Household
	nextID     uint
}

func newMockHouseholdRepo() *mockHouseholdRepo {
	return &mockHouseholdRepo{households: make(map[uint]*models.Household)}
}

func (r *mockHouseholdRepo) Create(_ context.Context, _ *gorm.DB, h *models.Household) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	h.ID = r.nextID
	h.CreatedAt = time.Now()
	clone := *h
	r.households[h.ID] = &clone
	return nil
}

func (r *mockHouseholdRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.households[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *h
	return &clone, nil
}

func (r *mockHouseholdRepo) Update(_ context.Context, _ *gorm.DB, h *models.Household) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.households[h.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *h
	r.households[h.ID] = &clone
	return nil
}

func (r *mockHouseholdRepo) Delete(_ context.Context, _ *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.households[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.households, id)
	return nil
}

func (r *mockHouseholdRepo) ListByWorker(_ context.Context, _ *gorm.DB, ashaID uint, _ repositories.HouseholdFilters) ([]*models.Household, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Household
	for _, h := range r.households {
		if h.AshaID == ashaID {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockHouseholdRepo) Count(_ context.Context, _ *gorm.DB) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total, verified int64
	for _, h := range r.households {
		total++
		if h.IsVerified {
			verified++
		}
	}
	return total, verified, nil
}

// ===== IN-MEMORY MCH REPOSITORY =====

type mockMCHRepo struct {
	mu      sync.Mutex
	records map[uint]*models.MCHRecord
	nextID  uint
}

func newMockMCHRepo() *mockMCHRepo {
	return &mockMCHRepo{records: make(map[uint]*models.MCHRecord)}
}

func (r *mockMCHRepo) Create(_ context.Context, _ *gorm.DB, rec *models.MCHRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = r.nextID
	rec.RecordDate = time.Now()
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *mockMCHRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.MCHRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *mockMCHRepo) ListByWorker(_ context.Context, _ *gorm.DB, ashaID uint, _ repositories.MCHFilters) ([]*models.MCHRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MCHRecord
	for _, rec := range r.records {
		if rec.AshaID == ashaID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockMCHRepo) SummaryByWorker(_ context.Context, _ *gorm.DB, ashaID uint) (*models.MCHSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &models.MCHSummary{RecordsByType: make(map[string]int64)}
	for _, rec := range r.records {
		if rec.AshaID == ashaID {
			summary.RecordsByType[rec.RecordType]++
			summary.Total++
		}
	}
	return summary, nil
}

func (r *mockMCHRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

// ===== AGGREGATE MOCK REPOSITORY =====

type mockRepository struct {
	user         *mockUserRepo
	consultation *mockConsultationRepo
	chat         *mockChatRepo
	household    *mockHouseholdRepo
	mch          *mockMCHRepo
}

func newMockRepository() *mockRepository {
	users := newMockUserRepo()
	return &mockRepository{
		user:         users,
		consultation: newMockConsultationRepo(),
		chat:         newMockChatRepo(users),
		household:    newMockHouseholdRepo(),
		mch:          newMockMCHRepo(),
	}
}

func (m *mockRepository) User() repositories.UserRepository                 { return m.user }
func (m *mockRepository) Consultation() repositories.ConsultationRepository { return m.consultation }
func (m *mockRepository) Chat() repositories.ChatRepository                 { return m.chat }
func (m *mockRepository) Household() repositories.HouseholdRepository       { return m.household }
func (m *mockRepository) MCH() repositories.MCHRepository                   { return m.mch }
func (m *mockRepository) Dashboard() repositories.DashboardRepository       { return &mockDashboardRepo{repo: m} }

func (m *mockRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(_ context.Context) error { return nil }
func (m *mockRepository) Close() error                 { return nil }

type mockDashboardRepo struct {
	repo *mockRepository
}

func (d *mockDashboardRepo) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	var err error
	if stats.UsersByRole, err = d.repo.user.CountByRole(ctx, nil); err != nil {
		return nil, err
	}
	if stats.ConsultationsByStatus, err = d.repo.consultation.CountByStatus(ctx, nil); err != nil {
		return nil, err
	}
	if stats.TotalHouseholds, stats.VerifiedHouseholds, err = d.repo.household.Count(ctx, nil); err != nil {
		return nil, err
	}
	if stats.TotalMCHRecords, err = d.repo.mch.Count(ctx, nil); err != nil {
		return nil, err
	}
	if stats.TotalChatThreads, err = d.repo.chat.CountThreads(ctx, nil); err != nil {
		return nil, err
	}
	if stats.TotalChatMessages, err = d.repo.chat.CountMessages(ctx, nil); err != nil {
		return nil, err
	}
	return stats, nil
}
