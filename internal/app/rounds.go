package app

import (
	"slices"
	"strconv"
	"strings"

	"a2a/internal/domain"
)

// startRound draws the adjective, rotates the judge to the back of the roster
// and tops up every other player's hand.
func (t *turn) startRound(Input) error {
	m := t.m
	if len(m.PlayerOrder) < MinPlayers {
		t.say("Too few players to continue. Waiting on %s to restart...", waitingOn(len(m.PlayerOrder)))
		t.toLobby()
		return nil
	}

	adjective, err := m.Adjectives.DrawOne(t.rng)
	if err != nil {
		return err
	}
	judge := m.PlayerOrder[0]
	m.PlayerOrder = append(m.PlayerOrder[1:], judge)
	m.CurrentAdjective = adjective
	m.CurrentJudge = judge
	m.Awaiting = slices.Clone(m.PlayerOrder[:len(m.PlayerOrder)-1])
	m.Submissions = nil
	m.Shuffled = nil

	t.say("Round %d: The judge is %s, submit your best Noun for the Adjective %s",
		m.RoundsPlayed+1, judge, domain.Adjective(adjective))
	for _, p := range m.Awaiting {
		hand := m.Hands[p]
		drawn, err := m.Nouns.Draw(t.rng, HandSize-len(hand))
		if err != nil {
			return err
		}
		hand = append(hand, drawn...)
		m.Hands[p] = hand
		t.tell(p, "Choose your noun for %s (say the #, not the word): %s",
			domain.Adjective(adjective), domain.NumberedNouns(hand))
	}
	t.enter(domain.StateAwaitingSubmissions, t.timings.AwaitSubmissions)
	return nil
}

// pick parses a 1-based choice in [1, n].
func pick(text string, n int) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

func (t *turn) submit(in Input) error {
	cmd := in.(Command)
	m := t.m
	if !m.Owes(cmd.Sender) {
		return errIgnored
	}
	hand := m.Hands[cmd.Sender]
	i, ok := pick(cmd.Text, len(hand))
	if !ok {
		return errIgnored
	}

	noun := hand[i]
	m.Hands[cmd.Sender] = slices.Delete(hand, i, i+1)
	m.Submissions = append(m.Submissions, domain.Submission{Noun: noun, Player: cmd.Sender})
	m.Awaiting = slices.DeleteFunc(m.Awaiting, func(p string) bool { return p == cmd.Sender })

	if len(m.Awaiting) == 0 {
		t.openJudgement("All Nouns received.")
		return nil
	}
	t.tell(cmd.Sender, "Submission received!")
	return nil
}

// openJudgement shuffles the submissions and hands the round to the judge.
func (t *turn) openJudgement(lead string) {
	m := t.m
	played := make([]string, len(m.Submissions))
	for i, s := range m.Submissions {
		played[i] = s.Noun
	}
	m.Shuffled = domain.Shuffle(t.rng, played)
	t.say("%s %s, pick the winner for %s: %s",
		lead, m.CurrentJudge, domain.Adjective(m.CurrentAdjective), domain.NumberedNouns(m.Shuffled))
	t.enter(domain.StateAwaitingJudgement, t.timings.AwaitJudgement)
}

func (t *turn) expireSubmissions(Input) error {
	m := t.m
	if !m.ExpirationWarned {
		m.SetDeadline(t.now, t.timings.Warning)
		m.ExpirationWarned = true
		t.say("%d seconds left to submit! Still waiting on Nouns from: %s",
			int(t.timings.Warning.Seconds()), strings.Join(m.Awaiting, ", "))
		return nil
	}

	inactive := m.Awaiting
	m.Awaiting = nil
	m.PlayerOrder = slices.DeleteFunc(m.PlayerOrder, func(p string) bool { return slices.Contains(inactive, p) })

	if len(m.Submissions) >= MinSubmissions {
		lead := strconv.Itoa(len(m.Submissions)) + " Nouns received."
		if len(inactive) > 0 {
			lead += " (Inactive players removed)"
		}
		t.openJudgement(lead)
		return nil
	}
	m.ClearRound()
	t.concludeVoid("Unfortunately, there were too few submissions. Removed inactive players.", len(m.PlayerOrder))
	return nil
}

func (t *turn) judge(in Input) error {
	cmd := in.(Command)
	m := t.m
	if cmd.Sender != m.CurrentJudge {
		return errIgnored
	}
	i, ok := pick(cmd.Text, len(m.Shuffled))
	if !ok {
		return errIgnored
	}

	noun := m.Shuffled[i]
	winner, _ := m.SubmitterOf(noun)
	m.Wins[winner]++
	m.RoundsPlayed++
	t.say("%s is the winner of round %d with %s %s!",
		winner, m.RoundsPlayed, domain.Adjective(m.CurrentAdjective), domain.Noun(noun))
	t.events = append(t.events, Event{
		Kind: EventRoundJudged,
		Payload: RoundJudgedPayload{
			MatchID:     m.ID,
			Round:       m.RoundsPlayed,
			Adjective:   m.CurrentAdjective,
			Judge:       m.CurrentJudge,
			Players:     slices.Clone(m.PlayerOrder),
			Played:      slices.Clone(m.Submissions),
			WinningNoun: noun,
			Winner:      winner,
			At:          t.now,
		},
	})

	m.ClearRound()
	if len(m.PlayerOrder) < MinPlayers {
		t.say("Too few players to continue. Waiting on %s to restart...", waitingOn(len(m.PlayerOrder)))
		t.toLobby()
		return nil
	}
	t.toBreak()
	return nil
}

func (t *turn) expireJudgement(Input) error {
	m := t.m
	if !m.ExpirationWarned {
		m.SetDeadline(t.now, t.timings.Warning)
		m.ExpirationWarned = true
		t.say("%s, we're still waiting for you to pick a winner! %d seconds remaining...",
			m.CurrentJudge, int(t.timings.Warning.Seconds()))
		return nil
	}
	judge := m.CurrentJudge
	m.ClearRound()
	t.concludeVoid(judge+" took too long to decide a winner.", len(m.PlayerOrder))
	return nil
}
