package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/payments"
	"github.com/pitchside/cricket-league/repositories"
)

// In-memory fakes backing the service tests. The fake TxManager passes a nil
// executor through; the fakes ignore it, since they keep state in maps.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

// --- tournaments ---

type fakeTournamentRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{items: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	copied := *t
	r.items[t.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Tournament, 0, len(r.items))
	for _, t := range r.items {
		if status != nil && t.Status != *status {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateBlocked(ctx context.Context, id int, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Blocked = blocked
	return nil
}

func (r *fakeTournamentRepo) SetWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerClubID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.WinnerClubID = &winnerClubID
	return nil
}

func (r *fakeTournamentRepo) UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BannerKey = bannerKey
	return nil
}

func (r *fakeTournamentRepo) ListDueForStatusChange(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for _, t := range r.items {
		if t.Blocked {
			continue
		}
		due := (t.Status == models.TournamentStatusDraft && !t.RegStartDate.After(now)) ||
			(t.Status == models.TournamentStatusRegistrationOpen && !t.RegEndDate.After(now)) ||
			(t.Status == models.TournamentStatusRegistrationClosed && !t.StartDate.After(now))
		if due {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- clubs ---

type fakeClubRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Club
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{items: make(map[int]*models.Club)}
}

func (r *fakeClubRepo) Create(ctx context.Context, club *models.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Name == club.Name {
			return repositories.ErrClubNameConflict
		}
	}
	r.nextID++
	club.ID = r.nextID
	club.CreatedAt = time.Now()
	copied := *club
	r.items[club.ID] = &copied
	return nil
}

func (r *fakeClubRepo) GetByID(ctx context.Context, id int) (*models.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrClubNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeClubRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Club, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.items[id]; ok {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeClubRepo) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return repositories.ErrClubNotFound
	}
	c.CrestKey = crestKey
	return nil
}

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copied := *user
	r.items[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// --- enrollments ---

type fakeEnrollmentRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{items: make(map[int]*models.Enrollment)}
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.TournamentID == enrollment.TournamentID && e.ClubID == enrollment.ClubID {
			return repositories.ErrEnrollmentConflict
		}
	}
	r.nextID++
	enrollment.ID = r.nextID
	enrollment.CreatedAt = time.Now()
	copied := *enrollment
	r.items[enrollment.ID] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrEnrollmentNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEnrollmentRepo) GetByTournamentAndClub(ctx context.Context, tournamentID, clubID int) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.TournamentID == tournamentID && e.ClubID == clubID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) MarkPaid(ctx context.Context, exec repositories.SQLExecutor, id int, orderID, paymentID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return repositories.ErrEnrollmentNotFound
	}
	if e.PaymentStatus != models.PaymentStatusPending {
		return repositories.ErrEnrollmentNotPending
	}
	e.PaymentStatus = models.PaymentStatusPaid
	e.OrderID = &orderID
	e.PaymentID = &paymentID
	e.PaidAt = &paidAt
	return nil
}

func (r *fakeEnrollmentRepo) SetOrderID(ctx context.Context, id int, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return repositories.ErrEnrollmentNotFound
	}
	e.OrderID = &orderID
	return nil
}

func (r *fakeEnrollmentRepo) ListPaidByTournament(ctx context.Context, tournamentID int) ([]*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Enrollment, 0)
	for _, e := range r.items {
		if e.TournamentID == tournamentID && e.PaymentStatus == models.PaymentStatusPaid {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- fixture rounds ---

type fakeRoundRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.FixtureRound
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{items: make(map[int]*models.FixtureRound)}
}

func (r *fakeRoundRepo) Create(ctx context.Context, exec repositories.SQLExecutor, round *models.FixtureRound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TournamentID == round.TournamentID && existing.Name == round.Name {
			return repositories.ErrFixtureRoundNameConflict
		}
	}
	r.nextID++
	round.ID = r.nextID
	round.CreatedAt = time.Now()
	copied := *round
	r.items[round.ID] = &copied
	return nil
}

func (r *fakeRoundRepo) GetByID(ctx context.Context, id int) (*models.FixtureRound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrFixtureRoundNotFound
	}
	copied := *round
	return &copied, nil
}

func (r *fakeRoundRepo) GetByTournamentAndName(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, name string) (*models.FixtureRound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, round := range r.items {
		if round.TournamentID == tournamentID && round.Name == name {
			copied := *round
			return &copied, nil
		}
	}
	return nil, repositories.ErrFixtureRoundNotFound
}

func (r *fakeRoundRepo) AddMatchCount(ctx context.Context, exec repositories.SQLExecutor, id int, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.items[id]
	if !ok {
		return repositories.ErrFixtureRoundNotFound
	}
	round.MatchCount += delta
	return nil
}

func (r *fakeRoundRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.FixtureRound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.FixtureRound, 0)
	for _, round := range r.items {
		if round.TournamentID == tournamentID {
			copied := *round
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- matches ---

type fakeMatchRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{items: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := repositories.NewPairKey(match.ClubAID, match.ClubBID)
	for _, m := range r.items {
		if m.TournamentID != match.TournamentID || m.RoundID != match.RoundID {
			continue
		}
		if repositories.NewPairKey(m.ClubAID, m.ClubBID) == key {
			return repositories.ErrMatchPairConflict
		}
		if m.MatchNumber == match.MatchNumber {
			return repositories.ErrMatchNumberConflict
		}
	}
	r.nextID++
	match.ID = r.nextID
	match.CreatedAt = time.Now()
	copied := *match
	r.items[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByRound(ctx context.Context, roundID int, publishedOnly bool) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.items {
		if m.RoundID != roundID {
			continue
		}
		if publishedOnly && !m.IsPublished {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchNumber < out[j].MatchNumber })
	return out, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.items {
		if m.TournamentID != tournamentID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListFinalizedByClub(ctx context.Context, exec repositories.SQLExecutor, tournamentID, clubID int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.items {
		if m.TournamentID == tournamentID && m.HasClub(clubID) && m.Status.Terminal() {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ExistingPairs(ctx context.Context, exec repositories.SQLExecutor, tournamentID, roundID int) (map[repositories.PairKey]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pairs := make(map[repositories.PairKey]bool)
	for _, m := range r.items {
		if m.TournamentID == tournamentID && m.RoundID == roundID {
			pairs[repositories.NewPairKey(m.ClubAID, m.ClubBID)] = true
		}
	}
	return pairs, nil
}

func (r *fakeMatchRepo) MaxMatchNumber(ctx context.Context, exec repositories.SQLExecutor, tournamentID, roundID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, m := range r.items {
		if m.TournamentID == tournamentID && m.RoundID == roundID && m.MatchNumber > max {
			max = m.MatchNumber
		}
	}
	return max, nil
}

func (r *fakeMatchRepo) FinalizeStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus, winnerClubID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Status.Terminal() {
		return repositories.ErrMatchAlreadyFinalized
	}
	m.Status = status
	m.WinnerClubID = winnerClubID
	return nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) PublishByRound(ctx context.Context, exec repositories.SQLExecutor, roundID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.RoundID == roundID {
			m.IsPublished = true
		}
	}
	return nil
}

// --- innings ---

type fakeInningsRepo struct {
	mu     sync.Mutex
	nextID int
	items  []*models.InningsScore
}

func newFakeInningsRepo() *fakeInningsRepo {
	return &fakeInningsRepo{}
}

func (r *fakeInningsRepo) Create(ctx context.Context, exec repositories.SQLExecutor, score *models.InningsScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.MatchID == score.MatchID && (s.ClubID == score.ClubID || s.InningsNo == score.InningsNo) {
			return repositories.ErrInningsConflict
		}
	}
	r.nextID++
	score.ID = r.nextID
	score.CreatedAt = time.Now()
	copied := *score
	r.items = append(r.items, &copied)
	return nil
}

func (r *fakeInningsRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.InningsScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.InningsScore, 0, 2)
	for _, s := range r.items {
		if s.MatchID == matchID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InningsNo < out[j].InningsNo })
	return out, nil
}

// --- point table ---

type pointTableKey struct {
	tournamentID int
	clubID       int
}

type fakePointTableRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[pointTableKey]*models.PointTableEntry
}

func newFakePointTableRepo() *fakePointTableRepo {
	return &fakePointTableRepo{items: make(map[pointTableKey]*models.PointTableEntry)}
}

func (r *fakePointTableRepo) GetOrCreateForUpdate(ctx context.Context, exec repositories.SQLExecutor, tournamentID, clubID int) (*models.PointTableEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pointTableKey{tournamentID, clubID}
	if e, ok := r.items[key]; ok {
		copied := *e
		return &copied, nil
	}
	r.nextID++
	entry := &models.PointTableEntry{ID: r.nextID, TournamentID: tournamentID, ClubID: clubID}
	r.items[key] = entry
	copied := *entry
	return &copied, nil
}

func (r *fakePointTableRepo) Update(ctx context.Context, exec repositories.SQLExecutor, entry *models.PointTableEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pointTableKey{entry.TournamentID, entry.ClubID}
	if _, ok := r.items[key]; !ok {
		return repositories.ErrPointTableEntryNotFound
	}
	entry.UpdatedAt = time.Now()
	copied := *entry
	r.items[key] = &copied
	return nil
}

func (r *fakePointTableRepo) ListRanked(ctx context.Context, tournamentID int) ([]*models.PointTableEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PointTableEntry, 0)
	for key, e := range r.items {
		if key.tournamentID == tournamentID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NetRunRate != b.NetRunRate {
			return a.NetRunRate > b.NetRunRate
		}
		return a.ClubID < b.ClubID
	})
	return out, nil
}

// --- progressions ---

type progressionKey struct {
	tournamentID int
	fromRound    string
	toRound      string
	clubID       int
}

type fakeProgressionRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[progressionKey]*models.RoundProgressionRecord
}

func newFakeProgressionRepo() *fakeProgressionRepo {
	return &fakeProgressionRepo{items: make(map[progressionKey]*models.RoundProgressionRecord)}
}

func (r *fakeProgressionRepo) Insert(ctx context.Context, exec repositories.SQLExecutor, record *models.RoundProgressionRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressionKey{record.TournamentID, record.FromRound, record.ToRound, record.ClubID}
	if _, ok := r.items[key]; ok {
		return false, nil
	}
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	copied := *record
	r.items[key] = &copied
	return true, nil
}

func (r *fakeProgressionRepo) ListByTransition(ctx context.Context, tournamentID int, fromRound, toRound string) ([]*models.RoundProgressionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RoundProgressionRecord, 0)
	for key, rec := range r.items {
		if key.tournamentID == tournamentID && key.fromRound == fromRound && key.toRound == toRound {
			copied := *rec
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- ledger ---

type fakeLedgerRepo struct {
	mu           sync.Mutex
	nextID       int
	balances     map[int]int64
	transactions map[string]*models.Transaction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		balances:     make(map[int]int64),
		transactions: make(map[string]*models.Transaction),
	}
}

func (r *fakeLedgerRepo) GetByOrganizer(ctx context.Context, organizerID int) (*models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[organizerID]
	if !ok {
		return nil, repositories.ErrLedgerNotFound
	}
	return &models.Ledger{OrganizerID: organizerID, Balance: balance}, nil
}

func (r *fakeLedgerRepo) AddToBalance(ctx context.Context, exec repositories.SQLExecutor, organizerID int, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[organizerID] += amount
	return nil
}

func (r *fakeLedgerRepo) GetTransactionByKey(ctx context.Context, exec repositories.SQLExecutor, transactionID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[transactionID]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *fakeLedgerRepo) InsertTransaction(ctx context.Context, exec repositories.SQLExecutor, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[tx.TransactionID]; ok {
		return repositories.ErrTransactionKeyConflict
	}
	r.nextID++
	tx.ID = r.nextID
	tx.CreatedAt = time.Now()
	copied := *tx
	r.transactions[tx.TransactionID] = &copied
	return nil
}

func (r *fakeLedgerRepo) ListTransactionsByOrganizer(ctx context.Context, organizerID int) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Transaction, 0)
	for _, tx := range r.transactions {
		if tx.OrganizerID == organizerID {
			copied := *tx
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- payment collaborators ---

type fakeGateway struct {
	orders int
	err    error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*payments.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders++
	return &payments.Order{
		ID:       fmt.Sprintf("order_fake_%d", g.orders),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

type recordingQueue struct {
	mu    sync.Mutex
	kinds []string
}

func (q *recordingQueue) Enqueue(ctx context.Context, kind string, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.kinds = append(q.kinds, kind)
	return nil
}

func (q *recordingQueue) Close() error { return nil }

func (q *recordingQueue) has(kind string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, k := range q.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

type staticVerifier struct {
	ok  bool
	err error
}

func (v staticVerifier) Verify(orderID, paymentID, signature string) (bool, error) {
	return v.ok, v.err
}
