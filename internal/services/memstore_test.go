package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// memStore is an in-memory Store for service tests. WithinTx runs the
// callback directly; commit/rollback semantics are the database's concern,
// the services only need the callback to see the same store.
type memStore struct {
	mu sync.Mutex

	users     map[string]*models.User
	clients   map[string]*models.Client
	engs      map[string]*models.Engagement
	returns   map[string]*models.TaxReturn
	tasks     map[string]*models.Task
	notices   map[string]*models.IRSNotice
	comms     map[string]*models.Communication
	docs      map[string]*models.Document
	templates map[string]*models.EmailTemplate
	logs      []*models.ActivityLog

	// failClientCreate makes the next n client inserts fail with errOnCreate.
	failClientCreate int
	errOnCreate      error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]*models.User{},
		clients:   map[string]*models.Client{},
		engs:      map[string]*models.Engagement{},
		returns:   map[string]*models.TaxReturn{},
		tasks:     map[string]*models.Task{},
		notices:   map[string]*models.IRSNotice{},
		comms:     map[string]*models.Communication{},
		docs:      map[string]*models.Document{},
		templates: map[string]*models.EmailTemplate{},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(repositories.Store) error) error {
	return fn(m)
}

func (m *memStore) Users() repositories.UserRepository                   { return (*memUsers)(m) }
func (m *memStore) Clients() repositories.ClientRepository               { return (*memClients)(m) }
func (m *memStore) Engagements() repositories.EngagementRepository       { return (*memEngagements)(m) }
func (m *memStore) Returns() repositories.TaxReturnRepository            { return (*memReturns)(m) }
func (m *memStore) Tasks() repositories.TaskRepository                   { return (*memTasks)(m) }
func (m *memStore) Notices() repositories.NoticeRepository               { return (*memNotices)(m) }
func (m *memStore) Communications() repositories.CommunicationRepository { return (*memComms)(m) }
func (m *memStore) Documents() repositories.DocumentRepository           { return (*memDocs)(m) }
func (m *memStore) Templates() repositories.EmailTemplateRepository     { return (*memTemplates)(m) }
func (m *memStore) ActivityLogs() repositories.ActivityLogRepository    { return (*memLogs)(m) }

// --- users ---

type memUsers memStore

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) Update(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.User
	for _, u := range m.users {
		res = append(res, *u)
	}
	return res, nil
}

// --- clients ---

type memClients memStore

func (m *memClients) Create(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failClientCreate > 0 {
		m.failClientCreate--
		return m.errOnCreate
	}
	for _, existing := range m.clients {
		if existing.ClientID == c.ClientID {
			return m.errOnCreate
		}
	}
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClients) Update(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClients) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
	return nil
}

func (m *memClients) FindByID(ctx context.Context, id string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memClients) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memClients) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.Client
	for _, c := range m.clients {
		if filter.Type != nil && c.Type != *filter.Type {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		res = append(res, *c)
	}
	return res, nil
}

func (m *memClients) CountByIDPrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.clients {
		if strings.HasPrefix(c.ClientID, prefix) {
			n++
		}
	}
	return n, nil
}

func (m *memClients) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients), nil
}

// --- engagements ---

type memEngagements memStore

func (m *memEngagements) Create(ctx context.Context, e *models.Engagement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.engs[e.ID] = &cp
	return nil
}

func (m *memEngagements) Update(ctx context.Context, e *models.Engagement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.engs[e.ID] = &cp
	return nil
}

func (m *memEngagements) UpdateStatus(ctx context.Context, id string, to models.EngagementStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.engs[id]; ok {
		e.Status = to
		e.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memEngagements) FindByID(ctx context.Context, id string) (*models.Engagement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.engs[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (m *memEngagements) List(ctx context.Context, filter models.EngagementFilter) ([]models.Engagement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.Engagement
	for _, e := range m.engs {
		if filter.ClientID != nil && e.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		res = append(res, *e)
	}
	return res, nil
}

// --- tax returns ---

type memReturns memStore

func (m *memReturns) Create(ctx context.Context, t *models.TaxReturn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.returns[t.ID] = &cp
	return nil
}

func (m *memReturns) Update(ctx context.Context, t *models.TaxReturn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.returns[t.ID] = &cp
	return nil
}

func (m *memReturns) UpdateStatus(ctx context.Context, id string, to models.ReturnStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.returns[id]; ok {
		t.Status = to
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memReturns) Complete(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.returns[id]; ok {
		t.Status = models.ReturnCompleted
		t.CompletionDate = &at
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memReturns) FindByID(ctx context.Context, id string) (*models.TaxReturn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.returns[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memReturns) List(ctx context.Context, filter models.ReturnFilter) ([]models.TaxReturn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.TaxReturn
	for _, t := range m.returns {
		if filter.ClientID != nil && t.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		res = append(res, *t)
	}
	return res, nil
}

func (m *memReturns) CountByStatus(ctx context.Context) (map[models.ReturnStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := map[models.ReturnStatus]int{}
	for _, t := range m.returns {
		res[t.Status]++
	}
	return res, nil
}

// --- tasks ---

type memTasks memStore

func (m *memTasks) Store(ctx context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTasks) FindByID(ctx context.Context, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memTasks) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.Task
	for _, t := range m.tasks {
		if filter.ClientID != nil && t.ClientID != *filter.ClientID {
			continue
		}
		if filter.TaxReturnID != nil && (t.TaxReturnID == nil || *t.TaxReturnID != *filter.TaxReturnID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		res = append(res, *t)
	}
	return res, nil
}

func (m *memTasks) Update(ctx context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTasks) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func (m *memTasks) UpdateStatus(ctx context.Context, id string, to models.TaskStatus, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = to
		t.CompletedAt = completedAt
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memTasks) CountOpenByReturn(ctx context.Context, taxReturnID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.TaxReturnID != nil && *t.TaxReturnID == taxReturnID && t.Status != models.TaskCompleted {
			n++
		}
	}
	return n, nil
}

func (m *memTasks) CountOpen(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.Status != models.TaskCompleted && t.Status != models.TaskCancelled {
			n++
		}
	}
	return n, nil
}

// --- notices ---

type memNotices memStore

func (m *memNotices) Create(ctx context.Context, n *models.IRSNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.notices[n.ID] = &cp
	return nil
}

func (m *memNotices) FindByID(ctx context.Context, id string) (*models.IRSNotice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notices[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

func (m *memNotices) List(ctx context.Context, filter models.NoticeFilter) ([]models.IRSNotice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.IRSNotice
	for _, n := range m.notices {
		if filter.ClientID != nil && n.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		res = append(res, *n)
	}
	return res, nil
}

func (m *memNotices) UpdateStatus(ctx context.Context, id string, to models.NoticeStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notices[id]; ok {
		n.Status = to
		n.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memNotices) SaveAnalysis(ctx context.Context, id, summary, explanation, actionItems string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notices[id]; ok {
		n.Summary = summary
		n.Explanation = explanation
		n.ActionItems = actionItems
		n.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memNotices) CountDueWithinDays(ctx context.Context, days int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, days)
	n := 0
	for _, notice := range m.notices {
		if notice.Status != models.NoticeClosed && notice.ResponseDue.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

// --- communications ---

type memComms memStore

func (m *memComms) Create(ctx context.Context, c *models.Communication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.comms[c.ID] = &cp
	return nil
}

func (m *memComms) Update(ctx context.Context, c *models.Communication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.comms[c.ID] = &cp
	return nil
}

func (m *memComms) UpdateStatus(ctx context.Context, id string, to models.CommStatus, sentAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comms[id]; ok {
		c.Status = to
		c.SentAt = sentAt
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memComms) FindByID(ctx context.Context, id string) (*models.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comms[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memComms) List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.Communication
	for _, c := range m.comms {
		if filter.ClientID != nil && c.ClientID != *filter.ClientID {
			continue
		}
		res = append(res, *c)
	}
	return res, nil
}

// --- documents ---

type memDocs memStore

func (m *memDocs) Create(ctx context.Context, d *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.docs[d.ID] = &cp
	return nil
}

func (m *memDocs) FindByID(ctx context.Context, id string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *memDocs) List(ctx context.Context, filter models.DocumentFilter, limit, offset int) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.Document
	for _, d := range m.docs {
		if filter.ClientID != nil && (d.ClientID == nil || *d.ClientID != *filter.ClientID) {
			continue
		}
		if filter.Category != nil && d.Category != *filter.Category {
			continue
		}
		res = append(res, *d)
	}
	if offset >= len(res) {
		return nil, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *memDocs) Count(ctx context.Context, filter models.DocumentFilter) (int, error) {
	docs, err := m.List(ctx, filter, 1<<30, 0)
	return len(docs), err
}

func (m *memDocs) SetVerified(ctx context.Context, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.docs[id]; ok {
		d.IsVerified = verified
	}
	return nil
}

// --- templates ---

type memTemplates memStore

func (m *memTemplates) Create(ctx context.Context, t *models.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memTemplates) Update(ctx context.Context, t *models.EmailTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memTemplates) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.templates, id)
	return nil
}

func (m *memTemplates) FindByID(ctx context.Context, id string) (*models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.templates[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memTemplates) List(ctx context.Context) ([]models.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.EmailTemplate
	for _, t := range m.templates {
		res = append(res, *t)
	}
	return res, nil
}

// --- activity logs ---

type memLogs memStore

func (m *memLogs) Insert(ctx context.Context, e *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	if u, ok := m.users[e.UserID]; ok {
		cp.UserName = u.Name
		cp.UserEmail = u.Email
		cp.UserRole = u.Role
	}
	m.logs = append(m.logs, &cp)
	return nil
}

func (m *memLogs) List(ctx context.Context, filter models.ActivityLogFilter, limit int) ([]models.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []models.ActivityLog
	for _, e := range m.logs {
		if filter.ResourceType != nil && e.ResourceType != *filter.ResourceType {
			continue
		}
		if filter.ResourceID != nil && e.ResourceID != *filter.ResourceID {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		res = append(res, *e)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
