package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// RunResultados is the results console: live tallies, the final ranking and
// election close-out. Results always come from the backend, never the mirror.
func (a *App) RunResultados(ctx context.Context) {
	fmt.Println("VotoFácil resultados (type 'help' for commands)")

	if err := a.login(ctx); err != nil {
		fmt.Println("Sign-in failed:", err)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("resultados> ")
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Println("Available commands: elections, tally, finalize, exit")
		case "elections":
			a.adminListElections(ctx)
		case "tally":
			a.showTally(ctx)
		case "finalize":
			a.finalize(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", parts[0])
		}
	}
}

func (a *App) showTally(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}

	tally, err := a.results.Tally(ctx, electionID)
	if err != nil {
		fmt.Println("Error computing tally:", err)
		return
	}

	fmt.Printf("Votes: %d (blank: %d)  Turnout: %d/%d (%.1f%%)\n",
		tally.TotalVotes, tally.BlankVotes, tally.VotersVoted, tally.TotalVoters, tally.Turnout*100)
	for i, row := range tally.Ranking {
		fmt.Printf("%2d. [%d] %-30s %5d  (%.1f%%)\n",
			i+1, row.Candidate.Number, row.Candidate.Name, row.Votes, row.Percent)
	}
}

func (a *App) finalize(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}
	confirm, err := GetSimpleText(a.reader, "Finalizing closes the election for good. Type 'yes' to confirm", os.Stdout)
	if err != nil || confirm != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.results.Finalize(ctx, electionID); err != nil {
		fmt.Println("Error finalizing election:", err)
		return
	}
	fmt.Println("Election finalized.")
}
