package cmd

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Setenv("MINDTASK_STORAGE_BACKEND", "sqlite")
	t.Setenv("MINDTASK_STORAGE_PASSPHRASE", "")
	return &cli{t: t, dir: t.TempDir()}
}

// resetFlags puts every flag back to its default; cobra keeps parsed values
// in the package-level vars between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--data-dir", c.dir,
		"--config", filepath.Join(c.dir, "missing.yaml"),
		"--no-color",
	))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("mindtask %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

var addedID = regexp.MustCompile(`Added (\S+):`)

func TestAddThenList(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("add", "Buy", "milk")
	m := addedID.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("add output = %q", out)
	}
	id := m[1]

	ids := strings.Fields(c.mustRun("list", "-f", "quiet"))
	want := []string{"root-1", "node-1", "node-1-1", "node-2", id}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("ids = %v, want %v", ids, want)
	}

	out = c.mustRun("add", "Oat milk", "--after", id)
	sib := addedID.FindStringSubmatch(out)[1]
	out = c.mustRun("search", "milk", "-f", "quiet")
	if !strings.Contains(out, id) || !strings.Contains(out, sib) {
		t.Fatalf("search = %q", out)
	}
}

func TestAddRejectsBothAnchors(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("add", "x", "--under", "node-1", "--after", "node-2"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestEditAndDone(t *testing.T) {
	c := newCLI(t)
	c.mustRun("edit", "node-2", "--deadline", "2030-01-02", "--energy", "1")
	out := c.mustRun("list", "-f", "json")
	if !strings.Contains(out, `"2030-01-02"`) {
		t.Fatalf("deadline missing from\n%s", out)
	}

	if _, err := c.run("edit", "node-2"); err == nil {
		t.Fatal("edit without fields should fail")
	}
	if _, err := c.run("edit", "node-2", "--energy", "9"); err == nil {
		t.Fatal("energy 9 accepted")
	}

	out = c.mustRun("done", "node-1-1", "--undo")
	if !strings.HasPrefix(out, "Reopened node-1-1") {
		t.Fatalf("done --undo = %q", out)
	}
	out = c.mustRun("done", "node-1-1")
	if !strings.HasPrefix(out, "Completed node-1-1") {
		t.Fatalf("done = %q", out)
	}
	out = c.mustRun("list", "--hide-completed", "-f", "quiet")
	if strings.Contains(out, "node-1-1") {
		t.Fatalf("completed task listed:\n%s", out)
	}
}

func TestDoneRefusesHeadings(t *testing.T) {
	c := newCLI(t)
	for _, id := range []string{"node-2", "root-1"} {
		if _, err := c.run("done", id); err == nil {
			t.Fatalf("done %s accepted", id)
		}
	}
	ids := strings.Fields(c.mustRun("list", "--hide-completed", "-f", "quiet"))
	if strings.Join(ids, ",") != "root-1,node-1,node-2" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestWrongPassphraseIsAnError(t *testing.T) {
	c := newCLI(t)
	t.Setenv("MINDTASK_STORAGE_PASSPHRASE", "right")
	c.mustRun("edit", "node-1", "--text", "precious")

	t.Setenv("MINDTASK_STORAGE_PASSPHRASE", "wrong")
	if _, err := c.run("add", "overwrite"); err == nil || !strings.Contains(err.Error(), "passphrase") {
		t.Fatalf("add with the wrong passphrase: %v", err)
	}

	t.Setenv("MINDTASK_STORAGE_PASSPHRASE", "right")
	out := c.mustRun("list", "-f", "quiet")
	if ids := strings.Fields(out); strings.Join(ids, ",") != "root-1,node-1,node-1-1,node-2" {
		t.Fatalf("ids = %v", ids)
	}
	if out := c.mustRun("search", "precious", "-f", "quiet"); !strings.Contains(out, "node-1") {
		t.Fatalf("edited text lost:\n%s", out)
	}
}

func TestEditSchedule(t *testing.T) {
	c := newCLI(t)
	c.mustRun("edit", "node-1-1", "--schedule", "2030-03-04", "--end", "2030-03-04T11:30")
	out := c.mustRun("list", "-f", "json")
	if !strings.Contains(out, `"2030-03-04T09:00"`) || !strings.Contains(out, `"2030-03-04T11:30"`) {
		t.Fatalf("schedule missing from\n%s", out)
	}
}

func TestDeleteNeedsYes(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("delete", "node-1"); err == nil {
		t.Fatal("subtree deleted without --yes")
	}
	if _, err := c.run("delete", "root-1", "--yes"); err == nil {
		t.Fatal("page root deleted")
	}
	out := c.mustRun("delete", "node-1", "--yes")
	if strings.TrimSpace(out) != "Deleted 2 task(s)" {
		t.Fatalf("delete = %q", out)
	}
}

func TestMove(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("move", "node-1-1"); err == nil {
		t.Fatal("move without a direction accepted")
	}
	c.mustRun("move", "node-1-1", "--to", "node-2")
	ids := strings.Fields(c.mustRun("list", "-f", "quiet"))
	if strings.Join(ids, ",") != "root-1,node-1,node-2,node-1-1" {
		t.Fatalf("ids = %v", ids)
	}
	c.mustRun("move", "node-2", "--up")
	ids = strings.Fields(c.mustRun("list", "-f", "quiet"))
	if strings.Join(ids, ",") != "root-1,node-2,node-1-1,node-1" {
		t.Fatalf("ids after reorder = %v", ids)
	}
}

func TestPlanAndUnplan(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("plan", "node-1-1", "--period", "evening")
	if !strings.Contains(out, "Survey competing products") {
		t.Fatalf("board:\n%s", out)
	}
	out = c.mustRun("plan", "node-1-1", "--period", "evening")
	if !strings.Contains(out, "Already planned there") {
		t.Fatalf("second plan:\n%s", out)
	}
	c.mustRun("unplan", "node-1-1", "--period", "evening")

	c.mustRun("plan", "--new", "Call Ann", "--period", "morning")
	var created string
	for _, id := range strings.Fields(c.mustRun("plan", "-f", "quiet")) {
		if id != "node-2" {
			created = id
		}
	}
	if created == "" {
		t.Fatal("planner task not on the board")
	}
	if _, err := c.run("unplan", created, "--period", "morning"); err == nil {
		t.Fatal("planner task deleted without --yes")
	}
	c.mustRun("unplan", created, "--period", "morning", "--yes")
	if out := c.mustRun("plan", "-f", "quiet"); strings.Contains(out, created) {
		t.Fatalf("planner task still listed:\n%s", out)
	}
}

func TestPages(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("pages", "new", "Garden")
	if !strings.HasPrefix(out, "Created page ") {
		t.Fatalf("new = %q", out)
	}
	out = c.mustRun("pages")
	if !strings.Contains(out, "* ") || !strings.Contains(out, "Garden") {
		t.Fatalf("pages:\n%s", out)
	}
	c.mustRun("pages", "use", "page-1")
	c.mustRun("pages", "rename", "page-1", "Launch")
	if out := c.mustRun("list"); !strings.Contains(out, "Launch") {
		t.Fatalf("list title:\n%s", out)
	}
	if _, err := c.run("pages", "use", "nope"); err == nil {
		t.Fatal("unknown page activated")
	}
}

func TestDoctorAndSummary(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("doctor"); !strings.Contains(out, "OK") {
		t.Fatalf("doctor:\n%s", out)
	}
	out := c.mustRun("summary")
	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "1 done") {
		t.Fatalf("summary:\n%s", out)
	}
}

func TestAgendaCalendar(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("agenda", "--calendar", "--month", "2030-02")
	if !strings.Contains(out, "February 2030") || !strings.Contains(out, "Mon") {
		t.Fatalf("calendar:\n%s", out)
	}
	out = c.mustRun("agenda", "-f", "quiet")
	if ids := strings.Fields(out); strings.Join(ids, ",") != "node-2,node-1" {
		t.Fatalf("agenda ids = %v", ids)
	}
	if _, err := c.run("agenda", "--range", "fortnight"); err == nil {
		t.Fatal("unknown range accepted")
	}
}

func TestSnippet(t *testing.T) {
	s := strings.Repeat("a", 40) + " Résumé " + strings.Repeat("b", 40)
	got := snippet(s, "résumé", lipgloss.NewStyle())
	if !strings.HasPrefix(got, "…") || !strings.HasSuffix(got, "…") || !strings.Contains(got, " Résumé ") {
		t.Fatalf("snippet = %q", got)
	}
	if got := snippet("short", "zzz", lipgloss.NewStyle()); got != "short" {
		t.Fatalf("no match = %q", got)
	}
}
