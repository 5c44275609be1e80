package app

import (
	"slices"
	"strings"

	"a2a/internal/domain"
)

// universal handles the commands that behave the same in every state.
// Only .join is accepted from senders outside the roster.
func (t *turn) universal(cmd Command) (bool, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == CommandJoin {
		return true, t.addPlayer(cmd.Sender)
	}
	if !t.m.InRoster(cmd.Sender) {
		return true, errIgnored
	}
	switch text {
	case CommandEnd:
		t.say("%s has ended the A2A game. %s", cmd.Sender, t.m.Summary())
		t.end()
		return true, nil
	case CommandStats:
		t.say("%s", t.m.Summary())
		return true, nil
	case CommandLeave:
		return true, t.removePlayer(cmd.Sender)
	}
	return false, nil
}

func (t *turn) addPlayer(nick string) error {
	m := t.m
	if m.InRoster(nick) {
		t.tell(nick, "You are already in the game.")
		return nil
	}
	if m.AvailableNouns() < HandSize {
		t.say("Sorry %s, there are too few Noun cards available for more players.", nick)
		return nil
	}

	hand := m.Hands[nick]
	drawn, err := m.Nouns.Draw(t.rng, HandSize-len(hand))
	if err != nil {
		return err
	}
	m.Hands[nick] = append(hand, drawn...)
	m.PlayerOrder = append(m.PlayerOrder, nick)
	if _, ok := m.Wins[nick]; !ok {
		m.Wins[nick] = 0
	}

	if m.State != domain.StateAwaitingPlayers {
		t.say("%s has joined the game.", nick)
		return nil
	}
	switch n := len(m.PlayerOrder); {
	case n >= MinPlayers:
		t.say("%s has joined the game. Starting the game soon!", nick)
		t.enter(domain.StateBetweenRounds, t.timings.Warning)
	case n == MinPlayers-1:
		t.say("%s has joined the game. One more player needed.", nick)
		m.Expiration = m.Expiration.Add(t.timings.ExtraPlayerTime)
	default:
		t.say("%s has joined the game. Waiting on %s...", nick, waitingOn(n))
	}
	return nil
}

func (t *turn) depart(in Input) error {
	return t.removePlayer(in.(Departure).Nick)
}

// removePlayer takes nick off the roster. The hand stays parked under the nick
// and the win count is kept so a rejoin picks both up again.
func (t *turn) removePlayer(nick string) error {
	m := t.m
	i := slices.Index(m.PlayerOrder, nick)
	if i < 0 {
		return errIgnored
	}
	m.PlayerOrder = slices.Delete(m.PlayerOrder, i, i+1)
	roster := len(m.PlayerOrder)

	switch {
	case m.State == domain.StateAwaitingPlayers && roster == 0:
		t.say("%s has left the game. Cancelling the game... %s", nick, m.Summary())
		t.end()
	case m.State == domain.StateAwaitingPlayers:
		t.say("%s has left the game. Waiting on %s to start...", nick, waitingOn(roster))
	case m.State == domain.StateBetweenRounds && roster < MinPlayers:
		t.say("%s has left the game. Too few players to continue. Waiting on %s to restart...", nick, waitingOn(roster))
		t.toLobby()
	case nick == m.CurrentJudge:
		m.ClearRound()
		if roster >= MinPlayers {
			t.say("%s, the current judge, has left the game. Starting a new round shortly...", nick)
			t.toBreak()
			return nil
		}
		t.say("%s, the current judge, has left the game. Too few players to continue. Waiting on %s to restart...", nick, waitingOn(roster))
		t.toLobby()
	case m.State == domain.StateAwaitingSubmissions && m.Owes(nick):
		m.Awaiting = slices.DeleteFunc(m.Awaiting, func(p string) bool { return p == nick })
		if len(m.Awaiting)+len(m.Submissions) < MinSubmissions {
			m.ClearRound()
			t.concludeVoid(nick+" has left the game. Too few Nouns left to play this round.", roster)
			return nil
		}
		t.say("%s has left the game.", nick)
		if len(m.Awaiting) == 0 {
			t.openJudgement("All Nouns received.")
		}
	case m.State == domain.StateAwaitingJudgement && roster < MinPlayers:
		m.ClearRound()
		t.say("%s has left the game. Too few players to continue. Waiting on %s to restart...", nick, waitingOn(roster))
		t.toLobby()
	default:
		t.say("%s has left the game.", nick)
	}
	return nil
}

// concludeVoid announces a round that ended without a winner and picks the next state by roster size.
func (t *turn) concludeVoid(lead string, roster int) {
	if roster >= MinPlayers {
		t.say("%s Starting a new round shortly...", lead)
		t.toBreak()
		return
	}
	t.say("%s Too few players to continue. Waiting on %s to restart...", lead, waitingOn(roster))
	t.toLobby()
}

// rename moves everything held under the old nick to the new one. State never changes.
func (t *turn) rename(in Input) error {
	r := in.(Rename)
	m := t.m
	hand, ok := m.Hands[r.Old]
	if !ok || r.New == "" || r.Old == r.New || m.InRoster(r.New) {
		return errIgnored
	}

	if parked, ok := m.Hands[r.New]; ok {
		m.Nouns.Discard(parked...)
	}
	m.Hands[r.New] = hand
	delete(m.Hands, r.Old)

	if w, ok := m.Wins[r.Old]; ok {
		m.Wins[r.New] += w
		delete(m.Wins, r.Old)
	}

	replace(m.PlayerOrder, r.Old, r.New)
	replace(m.Awaiting, r.Old, r.New)
	for i := range m.Submissions {
		if m.Submissions[i].Player == r.Old {
			m.Submissions[i].Player = r.New
		}
	}
	if m.CurrentJudge == r.Old {
		m.CurrentJudge = r.New
	}
	return nil
}

func replace(s []string, from, to string) {
	if i := slices.Index(s, from); i >= 0 {
		s[i] = to
	}
}

func (t *turn) expireLobby(Input) error {
	t.say("Too few players, cancelling the game... %s", t.m.Summary())
	t.end()
	return nil
}
