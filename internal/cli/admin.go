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
)

// RunAdmin is the management console. All commands here require a signed-in
// administrator and a reachable backend; nothing is queued.
func (a *App) RunAdmin(ctx context.Context) {
	fmt.Println("VotoFácil admin (type 'help' for commands)")

	if err := a.login(ctx); err != nil {
		fmt.Println("Sign-in failed:", err)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("admin> ")
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Println("Elections:  elections, addelection, deleteelection")
			fmt.Println("Candidates: candidates, addcandidate, deletecandidate")
			fmt.Println("Voters:     voters, addvoter, deletevoter, import")
			fmt.Println("Other:      exit")
		case "elections":
			a.adminListElections(ctx)
		case "addelection":
			a.addElection(ctx)
		case "deleteelection":
			a.deleteElection(ctx)
		case "candidates":
			a.adminListCandidates(ctx)
		case "addcandidate":
			a.addCandidate(ctx)
		case "deletecandidate":
			a.deleteCandidate(ctx)
		case "voters":
			a.adminListVoters(ctx)
		case "addvoter":
			a.addVoter(ctx)
		case "deletevoter":
			a.deleteVoter(ctx)
		case "import":
			a.importVoters(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", parts[0])
		}
	}
}

func (a *App) login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Administrator email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}
	fmt.Println("Signed in.")
	return nil
}

func (a *App) adminListElections(ctx context.Context) {
	items, err := a.admin.Elections(ctx)
	if err != nil {
		fmt.Println("Error listing elections:", err)
		return
	}
	for _, e := range items {
		status := "active"
		if !e.Active {
			status = "closed"
		}
		fmt.Printf("%s  %s (%s, %s)\n", e.ID, e.Name, e.Date, status)
	}
}

func (a *App) addElection(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Election name", os.Stdout)
	if err != nil || name == "" {
		return
	}
	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return
	}
	etype, err := GetSimpleText(a.reader, "Type (gremio, conselho, ...)", os.Stdout)
	if err != nil {
		return
	}

	e := &models.Election{Name: name, Date: date, Type: etype, Active: true}
	if err := a.admin.CreateElection(ctx, e); err != nil {
		fmt.Println("Error creating election:", err)
		return
	}
	fmt.Println("Created election", e.ID)
}

func (a *App) deleteElection(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || id == "" {
		return
	}
	confirm, err := GetSimpleText(a.reader, "This removes the election with its candidates and voters. Type 'yes' to confirm", os.Stdout)
	if err != nil || confirm != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.admin.DeleteElection(ctx, id); err != nil {
		fmt.Println("Error deleting election:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) adminListCandidates(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}

	items, err := a.admin.Candidates(ctx, electionID)
	if err != nil {
		fmt.Println("Error listing candidates:", err)
		return
	}
	for _, c := range items {
		fmt.Printf("%s  %d - %s\n", c.ID, c.Number, c.Name)
	}
}

func (a *App) addCandidate(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}
	name, err := GetSimpleText(a.reader, "Candidate name", os.Stdout)
	if err != nil || name == "" {
		return
	}
	numberStr, err := GetSimpleText(a.reader, "Ballot number", os.Stdout)
	if err != nil {
		return
	}
	number, err := strconv.Atoi(numberStr)
	if err != nil {
		fmt.Println("Invalid number.")
		return
	}
	photoPath, err := GetSimpleText(a.reader, "Photo file (empty to skip)", os.Stdout)
	if err != nil {
		return
	}

	var photo []byte
	photoType := ""
	if photoPath != "" {
		photo, err = os.ReadFile(photoPath)
		if err != nil {
			fmt.Println("Error reading photo:", err)
			return
		}
		photoType = "image/jpeg"
		if strings.HasSuffix(strings.ToLower(photoPath), ".png") {
			photoType = "image/png"
		}
	}

	c := &models.Candidate{ElectionID: electionID, Name: name, Number: number}
	if err := a.admin.CreateCandidate(ctx, c, photo, photoType); err != nil {
		if errors.Is(err, common.ErrDuplicateNumber) {
			fmt.Println("That ballot number is already taken in this election.")
			return
		}
		fmt.Println("Error creating candidate:", err)
		return
	}
	fmt.Println("Created candidate", c.ID)
}

func (a *App) deleteCandidate(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Candidate id", os.Stdout)
	if err != nil || id == "" {
		return
	}
	if err := a.admin.DeleteCandidate(ctx, id); err != nil {
		fmt.Println("Error deleting candidate:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) adminListVoters(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}

	items, err := a.admin.Voters(ctx, electionID)
	if err != nil {
		fmt.Println("Error listing voters:", err)
		return
	}
	for _, v := range items {
		voted := " "
		if v.Voted {
			voted = "x"
		}
		fmt.Printf("[%s] %s  %s (%s)\n", voted, v.ID, v.Name, v.AccessCode)
	}
}

func (a *App) addVoter(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}
	name, err := GetSimpleText(a.reader, "Voter name", os.Stdout)
	if err != nil || name == "" {
		return
	}
	code, err := GetSimpleText(a.reader, "Access code", os.Stdout)
	if err != nil || code == "" {
		return
	}

	v := &models.Voter{ElectionID: electionID, Name: name, AccessCode: code}
	if err := a.admin.RegisterVoter(ctx, v); err != nil {
		if errors.Is(err, common.ErrAlreadyRegistered) {
			fmt.Println("That access code is already registered in this election.")
			return
		}
		fmt.Println("Error registering voter:", err)
		return
	}
	fmt.Println("Registered voter", v.ID)
}

func (a *App) deleteVoter(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Voter id", os.Stdout)
	if err != nil || id == "" {
		return
	}
	if err := a.admin.DeleteVoter(ctx, id); err != nil {
		fmt.Println("Error deleting voter:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) importVoters(ctx context.Context) {
	electionID, err := GetSimpleText(a.reader, "Election id", os.Stdout)
	if err != nil || electionID == "" {
		return
	}
	path, err := GetSimpleText(a.reader, "CSV file (name,access_code)", os.Stdout)
	if err != nil || path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Println("Error opening file:", err)
		return
	}
	defer f.Close()

	voters, err := ParseVotersCSV(f)
	if err != nil {
		fmt.Println("Error parsing file:", err)
		return
	}

	report, err := a.admin.ImportVoters(ctx, electionID, voters)
	if err != nil {
		fmt.Println("Error importing voters:", err)
		return
	}

	fmt.Printf("Imported %d voter(s).\n", report.Imported)
	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped %d duplicate access code(s): %s\n",
			len(report.Skipped), strings.Join(report.Skipped, ", "))
	}
}
