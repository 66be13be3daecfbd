package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/votofacil/votofacil/internal/common"
	"github.com/votofacil/votofacil/internal/models"
	"github.com/votofacil/votofacil/internal/services"
)

// RunUrna is the voting-station console. It works online and offline; votes
// cast while offline are queued and delivered when the backend comes back.
func (a *App) RunUrna(ctx context.Context) {
	fmt.Println("VotoFácil urna (type 'help' for commands)")
	a.startWatcher(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("urna (%s)> ", a.mode())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Println("Available commands: (e)lections, vote, sync, pending, exit")
		case "e", "elections":
			a.listElections(ctx)
		case "vote":
			a.vote(ctx)
		case "sync":
			a.syncQueue(ctx)
		case "pending":
			a.showPending(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", parts[0])
		}
	}
}

func (a *App) listElections(ctx context.Context) []models.Election {
	items, offline, err := a.catalog.ActiveElections(ctx)
	if err != nil {
		fmt.Println("Error listing elections:", err)
		return nil
	}
	if offline {
		fmt.Println("(showing cached data)")
	}
	if len(items) == 0 {
		fmt.Println("No active elections.")
		return nil
	}

	for i, e := range items {
		fmt.Printf("%d. %s (%s)\n", i+1, e.Name, e.Date)
	}
	return items
}

func (a *App) chooseElection(ctx context.Context) *models.Election {
	items := a.listElections(ctx)
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return &items[0]
	}

	answer, err := GetSimpleText(a.reader, "Choose an election", os.Stdout)
	if err != nil {
		return nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(items) {
		fmt.Println("Invalid choice.")
		return nil
	}
	return &items[n-1]
}

func (a *App) vote(ctx context.Context) {
	election := a.chooseElection(ctx)
	if election == nil {
		return
	}

	code, err := GetAccessCode(a.reader, os.Stdout)
	if err != nil || code == "" {
		return
	}

	voter, offline, err := a.ballots.CheckEligibility(ctx, code, election.ID)
	switch {
	case errors.Is(err, common.ErrAlreadyVoted):
		fmt.Println("This access code has already voted.")
		return
	case errors.Is(err, common.ErrNotFound):
		fmt.Println("Access code not recognized for this election.")
		return
	case err != nil:
		fmt.Println("Error checking access code:", err)
		return
	}
	if offline {
		fmt.Println("(verified against cached roster)")
	}
	fmt.Printf("Welcome, %s.\n", voter.Name)

	candidates, _, err := a.catalog.Candidates(ctx, election.ID)
	if err != nil {
		fmt.Println("Error listing candidates:", err)
		return
	}
	for _, c := range candidates {
		fmt.Printf("  %d - %s\n", c.Number, c.Name)
	}

	answer, err := GetSimpleText(a.reader, "Enter the candidate number, or 'blank'", os.Stdout)
	if err != nil {
		return
	}

	ballot := services.Ballot{ElectionID: election.ID, VoterID: voter.ID}
	if strings.EqualFold(answer, "blank") || strings.EqualFold(answer, "branco") {
		ballot.Blank = true
	} else {
		number, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Println("Invalid candidate number.")
			return
		}
		for _, c := range candidates {
			if c.Number == number {
				id := c.ID
				ballot.CandidateID = &id
				break
			}
		}
		if ballot.CandidateID == nil {
			fmt.Println("No candidate with that number.")
			return
		}
	}

	queued, err := a.ballots.CastVote(ctx, ballot)
	switch {
	case errors.Is(err, common.ErrPartialWrite):
		fmt.Println("Vote recorded; voter status will be reconciled later.")
	case err != nil:
		fmt.Println("Error casting vote:", err)
		return
	case queued:
		fmt.Println("Vote stored locally and will be delivered when the connection returns.")
	default:
		fmt.Println("Vote recorded. Thank you!")
	}
}

func (a *App) syncQueue(ctx context.Context) {
	n, err := a.ballots.Drain(ctx)
	if err != nil {
		fmt.Println("Error delivering queued votes:", err)
	}
	fmt.Printf("Delivered %d queued vote(s).\n", n)

	if err := a.mirror.RefreshAll(ctx); err != nil {
		fmt.Println("Error refreshing local data:", err)
	}
}

func (a *App) showPending(ctx context.Context) {
	n, err := a.ballots.PendingCount(ctx)
	if err != nil {
		fmt.Println("Error reading queue:", err)
		return
	}
	fmt.Printf("%d vote(s) waiting for delivery.\n", n)
}
