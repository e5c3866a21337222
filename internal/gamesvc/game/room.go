package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Publisher is the state publication sink. PublishState is called with the
// room lock held, immediately after a command's mutation fully commits;
// implementations must serialize the snapshot synchronously and not retain
// it.
type Publisher interface {
	PublishState(roomID string, state *GameState)
	NotifyRoom(roomID string, message string)
	SendError(roomID, playerID, message string)
	SendJoined(roomID, playerID string)
	SendKicked(roomID, playerID string)
}

// Room is one isolated game session. All commands and timer callbacks
// targeting a room serialize on its mutex; rooms are otherwise independent
// and run in parallel.
//
// Every command follows the same shape: validate and draw (fallible, no
// mutation), then commit, then re-arm the autoplay timer and publish. A
// card-supply failure therefore aborts the whole transition with the phase
// unchanged.
type Room struct {
	ID string

	mu          sync.Mutex
	config      RoomConfig
	phase       Phase
	players     map[string]*Player
	joinCounter int
	rounds      []*Round
	judgeID     string
	leaderID    string
	question    QuestionCard

	supply   *cardSupply
	autoplay *autoplayTimer
	catalog  Catalog
	pub      Publisher
	clock    clockwork.Clock
	rng      *rand.Rand
	onEmpty  func()
}

func NewRoom(id string, catalog Catalog, pub Publisher, clock clockwork.Clock, rng *rand.Rand, onEmpty func()) *Room {
	return &Room{
		ID:       id,
		config:   DefaultConfig(),
		phase:    PhaseWaiting,
		players:  make(map[string]*Player),
		supply:   newCardSupply(catalog, rng),
		autoplay: newAutoplayTimer(clock),
		catalog:  catalog,
		pub:      pub,
		clock:    clock,
		rng:      rng,
		onEmpty:  onEmpty,
	}
}

// ---- membership ----

// Join admits a player. A request carrying the id of an offline prior
// record merges onto it: score, hand and submission state move to the new
// id and every ledger reference is rewritten. Only the first merge against
// a record succeeds; once merged the old record is gone and later attempts
// join fresh.
func (r *Room) Join(playerID, username, pictureUrl, oldPlayerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(username) < 1 || len(username) > 20 {
		return ErrInvalidUsername
	}
	if _, ok := r.players[playerID]; ok {
		return ErrAlreadyJoined
	}
	if len(r.players) >= r.config.RoomSize {
		return ErrRoomFull
	}

	r.joinCounter++
	p := &Player{
		ID:         playerID,
		Username:   username,
		PictureUrl: pictureUrl,
		Status:     StatusPending,
		joinSeq:    r.joinCounter,
	}
	if r.phase != PhaseWaiting {
		p.IsWaitingForNextRound = true
		p.Status = StatusWaiting
	}
	r.players[playerID] = p

	if oldPlayerID != "" {
		r.mergeReconnect(p, oldPlayerID)
	}
	r.repairLeaderLocked()

	log.Infof("room %s: %s joined", r.ID, username)
	r.pub.SendJoined(r.ID, playerID)
	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

func (r *Room) mergeReconnect(p *Player, oldPlayerID string) {
	old, ok := r.players[oldPlayerID]
	if !ok || !old.IsOffline || oldPlayerID == p.ID {
		return
	}

	p.absorb(old)
	delete(r.players, oldPlayerID)

	for _, round := range r.rounds {
		round.ReplacePlayerID(oldPlayerID, p.ID)
	}
	if r.judgeID == oldPlayerID {
		r.judgeID = p.ID
	}
	if r.leaderID == oldPlayerID {
		r.leaderID = p.ID
	}

	// While a round is resolving the returning player observes only; they
	// rejoin the flow when the next round starts. A reconnect during
	// playing puts them straight back in.
	switch r.phase {
	case PhaseJudging, PhaseResults:
		p.IsWaitingForNextRound = true
	default:
		p.IsWaitingForNextRound = false
		if p.Status == StatusWaiting {
			p.Status = StatusPending
		}
	}

	log.Infof("room %s: %s reconnected as %s", r.ID, oldPlayerID, p.ID)
}

// Leave handles a disconnect. In the lobby the player is flagged offline
// and purged after a grace window; mid-game they become a bot so the round
// completes without blocking on them. A leaving leader hands leadership to
// the next online player in join order within the same command cycle.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok || p.IsOffline {
		return
	}

	if r.leaderID == playerID {
		r.leaderID = r.nextLeaderAfter(playerID)
	}

	if r.phase == PhaseWaiting {
		p.IsOffline = true
		p.purgeTimer = r.clock.AfterFunc(lobbyPurgeDelay, func() {
			r.purgePlayer(playerID)
		})
	} else {
		p.IsOffline = true
		p.IsBot = true
	}

	log.Infof("room %s: %s left (phase %s)", r.ID, p.Username, r.phase)
	r.pub.PublishState(r.ID, r.snapshotLocked())
}

// purgePlayer removes a player whose lobby grace window expired without a
// reconnect.
func (r *Room) purgePlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok || !p.IsOffline {
		return
	}
	delete(r.players, playerID)
	log.Infof("room %s: purged %s after grace window", r.ID, p.Username)

	if r.closeIfEmptyLocked() {
		return
	}
	r.repairLeaderLocked()
	r.pub.PublishState(r.ID, r.snapshotLocked())
}

// KickPlayer removes a player immediately. Admin only.
func (r *Room) KickPlayer(actorID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.leaderID {
		return ErrNotLeader
	}
	target, ok := r.players[targetID]
	if !ok {
		return ErrPlayerNotFound
	}

	target.cancelPurge()
	delete(r.players, targetID)
	if r.leaderID == targetID {
		r.leaderID = r.nextLeaderAfter(targetID)
	}

	r.pub.SendKicked(r.ID, targetID)
	if r.closeIfEmptyLocked() {
		return nil
	}
	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

func (r *Room) closeIfEmptyLocked() bool {
	if len(r.players) > 0 {
		return false
	}
	r.autoplay.disarm()
	if r.onEmpty != nil {
		r.onEmpty()
	}
	log.Infof("room %s: empty, closing", r.ID)
	return true
}

// ---- configuration ----

func (r *Room) SetConfig(actorID string, update ConfigUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.leaderID {
		return ErrNotLeader
	}
	if err := r.config.apply(update); err != nil {
		return err
	}

	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

// ---- game lifecycle ----

// StartGame opens round 1: random judge among online players, one question
// drawn, hands dealt to every non-judge online player.
func (r *Room) StartGame(ctx context.Context, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.leaderID {
		return ErrNotLeader
	}
	if r.phase != PhaseWaiting {
		return ErrWrongPhase
	}
	if len(r.config.Decks) < 1 {
		return ErrNoDecksSelected
	}
	if len(r.onlineIDsInJoinOrder()) < 2 {
		return wrapf(ErrNoOnlinePlayers, "at least 2 players required")
	}

	return r.startRound(ctx, r.randomOnlineID())
}

// AdvanceRound moves to the next round, or to finished once somebody
// reached the winning score. Called by the leader or by the results-phase
// timeout.
func (r *Room) AdvanceRound(ctx context.Context, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.leaderID {
		return ErrNotLeader
	}
	if r.phase != PhasePlaying && r.phase != PhaseJudging && r.phase != PhaseResults {
		return ErrWrongPhase
	}
	return r.advanceRoundLocked(ctx)
}

func (r *Room) advanceRoundLocked(ctx context.Context) error {
	if champion := r.championLocked(); champion != nil {
		r.finishGame(champion)
		return nil
	}

	r.removeBotPlayers()
	if r.closeIfEmptyLocked() {
		return nil
	}
	if len(r.players) < 2 {
		r.resetToLobbyLocked()
		r.pub.NotifyRoom(r.ID, "Not enough players, at least 2 players are required")
		r.pub.PublishState(r.ID, r.snapshotLocked())
		return nil
	}

	judgeID := r.nextJudgeID()
	if judgeID == "" {
		return ErrNoOnlinePlayers
	}
	return r.startRound(ctx, judgeID)
}

// startRound draws the question and the deal before mutating anything; a
// supply failure leaves the room exactly as it was and notifies everyone.
func (r *Room) startRound(ctx context.Context, judgeID string) error {
	question, err := r.supply.pickQuestion(ctx, r.config.Decks)
	if err != nil {
		r.pub.NotifyRoom(r.ID, "Cannot start the round: "+err.Error())
		return err
	}

	eligible := r.dealTargets(judgeID)
	target := MinimumHandSize + question.Spaces

	needed := 0
	for _, p := range eligible {
		if n := target - len(p.Hand); n > 0 {
			needed += n
		}
	}

	var dealt []AnswerCard
	if needed > 0 {
		dealt, err = r.supply.pickAnswers(ctx, r.config.Decks, needed)
		if err != nil {
			r.pub.NotifyRoom(r.ID, "Cannot start the round: "+err.Error())
			return err
		}
	}

	// commit: nothing below can fail
	r.supply.commit(&question, dealt)
	r.phase = PhaseStarting
	r.judgeID = judgeID
	r.question = question

	for _, p := range eligible {
		if n := target - len(p.Hand); n > 0 {
			p.addCards(dealt[:n])
			dealt = dealt[n:]
		}
	}

	r.rounds = append(r.rounds, newRound(question, judgeID))

	for _, p := range r.players {
		p.HasSubmitted = false
		p.IsWaitingForNextRound = false
		if p.IsOffline {
			continue
		}
		if p.ID == judgeID {
			p.Status = StatusJudge
		} else {
			p.Status = StatusPending
		}
	}

	r.setPhase(PhasePlaying)
	log.Infof("room %s: round %d started, judge %s", r.ID, len(r.rounds), judgeID)
	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

// dealTargets returns the players who get cards this round: everyone
// except the judge who is either online or re-entering, in join order.
func (r *Room) dealTargets(judgeID string) []*Player {
	var out []*Player
	for _, p := range r.playersInJoinOrder() {
		if p.ID == judgeID || p.IsOffline {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ---- playing ----

// SubmitAnswers records a player's selection for the current round and
// removes the cards from their hand. When the last eligible player
// submits, the room moves to judging and the pending timer is superseded.
func (r *Room) SubmitAnswers(playerID string, cardIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if p.IsOffline {
		return ErrPlayerOffline
	}
	return r.submitLocked(p, cardIDs)
}

func (r *Room) submitLocked(p *Player, cardIDs []string) error {
	if r.phase != PhasePlaying {
		return ErrWrongPhase
	}
	if p.ID == r.judgeID {
		return ErrJudgeCannotSubmit
	}
	if p.IsWaitingForNextRound {
		return ErrWrongPhase
	}
	if p.HasSubmitted {
		return ErrAlreadySubmitted
	}
	if len(cardIDs) != r.question.Spaces {
		return wrapf(ErrSelectionSize, "need %d cards, got %d", r.question.Spaces, len(cardIDs))
	}

	round := r.currentRound()
	if round == nil {
		return ErrNoRound
	}

	cards, ok := p.takeFromHand(cardIDs)
	if !ok {
		return ErrCardNotInHand
	}

	round.submit(p.ID, cards)
	p.HasSubmitted = true
	p.Status = StatusDone

	if r.allSubmittedLocked() {
		r.setPhase(PhaseJudging)
	}

	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

// allSubmittedLocked reports whether every eligible (non-judge, in-round)
// player has submitted. Offline bots do not block completion; the timeout
// submits for them.
func (r *Room) allSubmittedLocked() bool {
	for _, p := range r.players {
		if p.ID == r.judgeID || p.IsOffline || p.IsWaitingForNextRound {
			continue
		}
		if p.Status != StatusDone {
			return false
		}
	}
	return true
}

// ---- judging ----

// RevealNext advances the reveal order by one submission. Judge only.
func (r *Room) RevealNext(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.judgeID {
		return ErrNotJudge
	}
	return r.revealNextLocked()
}

func (r *Room) revealNextLocked() error {
	if r.phase != PhaseJudging {
		return ErrWrongPhase
	}
	round := r.currentRound()
	if round == nil {
		return ErrNoRound
	}

	round.revealNext()
	r.setPhase(PhaseJudging) // re-arm the timer for the next reveal
	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

// JudgeDecide records the round winner and moves to results. Judge only;
// the winner must be a submitter in the current round.
func (r *Room) JudgeDecide(actorID, winnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.judgeID {
		return ErrNotJudge
	}
	return r.judgeDecideLocked(winnerID)
}

func (r *Room) judgeDecideLocked(winnerID string) error {
	if r.phase != PhaseJudging {
		return ErrWrongPhase
	}
	round := r.currentRound()
	if round == nil {
		return ErrNoRound
	}
	if !round.hasSubmission(winnerID) {
		return ErrNotASubmitter
	}
	winner, ok := r.players[winnerID]
	if !ok {
		return ErrPlayerNotFound
	}

	winner.Score++
	winner.Status = StatusWinner
	round.Winner = winnerID

	r.setPhase(PhaseResults)
	log.Infof("room %s: round %d won by %s", r.ID, len(r.rounds), winner.Username)
	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

// ---- session reset / finish ----

// BackToLobby resets the session: rounds, scores and exclusion sets are
// cleared, configuration and membership survive, offline bots are purged.
func (r *Room) BackToLobby(actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.leaderID {
		return ErrNotLeader
	}
	r.resetToLobbyLocked()
	if r.closeIfEmptyLocked() {
		return nil
	}
	r.pub.PublishState(r.ID, r.snapshotLocked())
	return nil
}

// StartNewGame resets the session and immediately starts a fresh game.
func (r *Room) StartNewGame(ctx context.Context, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorID != r.leaderID {
		return ErrNotLeader
	}
	r.resetToLobbyLocked()
	if len(r.config.Decks) < 1 {
		return ErrNoDecksSelected
	}
	if len(r.onlineIDsInJoinOrder()) < 2 {
		return wrapf(ErrNoOnlinePlayers, "at least 2 players required")
	}
	return r.startRound(ctx, r.randomOnlineID())
}

func (r *Room) resetToLobbyLocked() {
	r.removeBotPlayers()
	for _, p := range r.players {
		p.resetForLobby()
	}
	r.rounds = nil
	r.judgeID = ""
	r.question = QuestionCard{}
	r.supply.reset()
	r.setPhase(PhaseWaiting)
	if _, ok := r.players[r.leaderID]; !ok {
		r.leaderID = r.nextLeaderAfter("")
	}
}

func (r *Room) finishGame(champion *Player) {
	for _, p := range r.players {
		if p.IsOffline {
			continue
		}
		p.Status = StatusNone
	}
	champion.Status = StatusWinner
	r.setPhase(PhaseFinished)
	log.Infof("room %s: game finished, champion %s", r.ID, champion.Username)
	r.pub.PublishState(r.ID, r.snapshotLocked())
}

// championLocked returns the player who ended the game, or nil while no
// score reached the threshold. Ties resolve deterministically: highest
// score first, then earliest join.
func (r *Room) championLocked() *Player {
	var best *Player
	for _, p := range r.playersInJoinOrder() {
		if p.Score < r.config.ScoreToWin {
			continue
		}
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

// removeBotPlayers drops players who disconnected mid-game and never came
// back; a returning player parked for the next round is kept.
func (r *Room) removeBotPlayers() {
	for id, p := range r.players {
		if p.IsBot && p.IsOffline && !p.IsWaitingForNextRound {
			delete(r.players, id)
			if r.leaderID == id {
				r.leaderID = r.nextLeaderAfter(id)
			}
		}
	}
}

// ---- autoplay ----

// setPhase transitions the phase and keeps the autoplay timer in sync:
// armed for playing/judging/results, disarmed otherwise. Arming supersedes
// whatever timer was pending, which is also how a manual action that
// completes a phase cancels the stale timeout.
func (r *Room) setPhase(p Phase) {
	r.phase = p
	if p.autoplayArmed() {
		d := time.Duration(r.config.RoundTime)*time.Second + autoplaySlack
		r.autoplay.arm(d, r.fireAutoplay)
	} else {
		r.autoplay.disarm()
	}
}

// fireAutoplay runs on timer expiry and forces a deterministic decision
// for the current phase. A superseded generation means the phase already
// moved on; nothing happens.
func (r *Room) fireAutoplay(generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.autoplay.live(generation) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch r.phase {
	case PhasePlaying:
		r.autoplaySubmit()
		if r.phase == PhasePlaying {
			r.setPhase(PhasePlaying) // nobody could submit; keep the clock running
		}
	case PhaseJudging:
		r.autoplayJudge()
	case PhaseResults:
		if err := r.advanceRoundLocked(ctx); err != nil {
			log.Errorf("room %s: autoplay advance failed: %v", r.ID, err)
		}
	}
}

// autoplaySubmit submits a random legal selection for every player who has
// not answered yet, bots included.
func (r *Room) autoplaySubmit() {
	for _, p := range r.playersInJoinOrder() {
		if p.ID == r.judgeID || p.HasSubmitted || p.IsWaitingForNextRound {
			continue
		}
		if r.phase != PhasePlaying {
			return // last submission already flipped the phase
		}
		cardIDs := p.randomAnswerIDs(r.rng, r.question.Spaces)
		if cardIDs == nil {
			log.Warnf("room %s: %s has too few cards to autoplay", r.ID, p.Username)
			continue
		}
		if err := r.submitLocked(p, cardIDs); err != nil {
			log.Errorf("room %s: autoplay submit for %s failed: %v", r.ID, p.Username, err)
		}
	}
}

// autoplayJudge reveals the next card, or, once everything is revealed,
// picks a uniformly random submitter as winner.
func (r *Room) autoplayJudge() {
	round := r.currentRound()
	if round == nil {
		return
	}

	if !round.AllRevealed {
		if err := r.revealNextLocked(); err != nil {
			log.Errorf("room %s: autoplay reveal failed: %v", r.ID, err)
		}
		return
	}

	submitters := round.submitters()
	if len(submitters) == 0 {
		// nobody submitted at all; skip ahead rather than stall
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.advanceRoundLocked(ctx); err != nil {
			log.Errorf("room %s: autoplay advance failed: %v", r.ID, err)
		}
		return
	}

	winnerID := submitters[r.rng.Intn(len(submitters))]
	if err := r.judgeDecideLocked(winnerID); err != nil {
		log.Errorf("room %s: autoplay decision failed: %v", r.ID, err)
	}
}

// ---- helpers ----

func (r *Room) currentRound() *Round {
	if len(r.rounds) == 0 {
		return nil
	}
	return r.rounds[len(r.rounds)-1]
}

func (r *Room) playersInJoinOrder() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].joinSeq < out[j].joinSeq })
	return out
}

func (r *Room) onlineIDsInJoinOrder() []string {
	var ids []string
	for _, p := range r.playersInJoinOrder() {
		if !p.IsOffline {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// nextJudgeID rotates round-robin over the online players in join order.
// The list is recomputed on every call, so a disconnect shrinks the
// rotation immediately; past the end it wraps to the first online player.
func (r *Room) nextJudgeID() string {
	ids := r.onlineIDsInJoinOrder()
	if len(ids) == 0 {
		return ""
	}
	for i, id := range ids {
		if id == r.judgeID {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

// nextLeaderAfter picks the next online player in join order, skipping the
// one who is leaving.
// repairLeaderLocked reassigns leadership when the current leader id no
// longer maps to a player. The seat can go vacant when the last online
// player disconnects in the lobby; without a repair on the next join or
// purge the room would reject every leader command for good.
func (r *Room) repairLeaderLocked() {
	if _, ok := r.players[r.leaderID]; ok {
		return
	}
	r.leaderID = ""
	for _, p := range r.playersInJoinOrder() {
		if !p.IsOffline {
			r.leaderID = p.ID
			return
		}
	}
}

func (r *Room) nextLeaderAfter(leavingID string) string {
	for _, p := range r.playersInJoinOrder() {
		if p.ID == leavingID || p.IsOffline {
			continue
		}
		return p.ID
	}
	return ""
}

func (r *Room) randomOnlineID() string {
	ids := r.onlineIDsInJoinOrder()
	if len(ids) == 0 {
		return ""
	}
	return ids[r.rng.Intn(len(ids))]
}

// Empty reports whether no players remain, online or not.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}
