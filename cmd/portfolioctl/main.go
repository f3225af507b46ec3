// Package main is the interactive terminal client of the portfolio
// dashboard: profile, project and achievement management, media attachment,
// the media viewer and sandbox preview links.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/client/cache"
	"github.com/ascollins/portfolioctl/internal/client/form"
	"github.com/ascollins/portfolioctl/internal/client/media"
	"github.com/ascollins/portfolioctl/internal/client/notify"
	"github.com/ascollins/portfolioctl/internal/client/session"
	"github.com/ascollins/portfolioctl/internal/config"
	"github.com/ascollins/portfolioctl/internal/logger"
	"github.com/ascollins/portfolioctl/internal/models"
)

var (
	version   string
	buildDate string
)

// app bundles the wired client components used by the shell commands.
type app struct {
	tokens    *session.Store
	apiClient *api.Client
	data      *cache.Client
	uploader  *media.Uploader
	notifier  notify.Notifier
	log       *zap.Logger
}

// consoleNotifier prints notifications to the terminal in addition to
// recording them in the center.
type consoleNotifier struct {
	inner notify.Notifier
}

// Notify implements notify.Notifier.
func (c consoleNotifier) Notify(n notify.Notification) {
	if n.Kind == notify.Failure {
		fmt.Println("error:", n.Message)
	} else {
		fmt.Println(n.Message)
	}
	c.inner.Notify(n)
}

func main() {
	_ = godotenv.Load()

	showVer := flag.Bool("version", false, "show build version and date")
	options := config.Parse()

	if *showVer {
		fmt.Printf("portfolioctl\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	tokens := session.NewStore(options.TokenFile)
	httpClient := api.NewHTTPClient(options.Timeout)
	apiClient := api.New(options.BaseURL, tokens, httpClient, log.Log)
	center := notify.NewCenter(20, log.Log)
	notifier := consoleNotifier{inner: center}

	a := &app{
		tokens:    tokens,
		apiClient: apiClient,
		data:      cache.NewClient(apiClient, 0, log.Log),
		uploader:  media.NewUploader(apiClient, options.UploadURL, httpClient, notifier, log.Log),
		notifier:  notifier,
		log:       log.Log,
	}

	repl(a)
}

// repl runs the interactive shell loop.
func repl(a *app) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	fmt.Println("portfolioctl — type 'help' for a list of commands")
	for {
		fmt.Print("portfolio> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			printHelp()
		case "login":
			if len(args) < 2 {
				fmt.Println("Usage: login <token>")
				continue
			}
			if err := a.tokens.Save(args[1]); err != nil {
				fmt.Println("Failed to store token:", err)
			} else {
				fmt.Println("Token stored")
			}
		case "logout":
			if err := a.tokens.Clear(); err != nil {
				fmt.Println("Failed to clear token:", err)
			} else {
				fmt.Println("Logged out")
			}
		case "profile":
			a.showProfile(ctx)
		case "edit-profile":
			a.editProfile(ctx, scanner)
		case "projects":
			a.listProjects(ctx)
		case "add-project":
			a.editProject(ctx, scanner, nil)
		case "edit-project":
			a.editProjectByID(ctx, scanner, args)
		case "rm-project":
			a.removeProject(ctx, scanner, args)
		case "achievements":
			a.listAchievements(ctx)
		case "add-achievement":
			a.editAchievement(ctx, scanner, nil)
		case "edit-achievement":
			a.editAchievementByID(ctx, scanner, args)
		case "rm-achievement":
			a.removeAchievement(ctx, scanner, args)
		case "activity":
			a.showActivity(ctx)
		case "settings":
			a.showSettings(ctx)
		case "view":
			a.viewProject(ctx, scanner, args)
		case "generate":
			a.openSandbox(ctx, scanner)
		case "exit", "quit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  login <token>            store the bearer token
  logout                   remove the stored token
  profile                  show the user profile
  edit-profile             edit the user profile
  projects                 list projects
  add-project              create a project
  edit-project <id>        edit a project
  rm-project <id>          delete a project (asks for confirmation)
  achievements             list achievements
  add-achievement          create an achievement
  edit-achievement <id>    edit an achievement
  rm-achievement <id>      delete an achievement (asks for confirmation)
  activity                 show the activity feed
  settings                 show the settings list
  view <project-id>        open the media viewer for a project
  generate                 provision a sandbox and show the preview links
  exit                     quit`)
}

// reportFetchError distinguishes auth failures and unreachable backends from
// ordinary errors and always offers a retry path instead of showing an empty
// list.
func reportFetchError(err error) {
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		fmt.Println("Not signed in. Use 'login <token>' and retry.")
	case errors.Is(err, api.ErrUnreachable):
		fmt.Println("Backend unreachable. Check the connection and retry.")
	default:
		fmt.Println("Request failed:", err, "— retry in a moment.")
	}
}

func (a *app) showProfile(ctx context.Context) {
	u, err := a.data.Profile(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	fmt.Printf("%s <%s> — %s\n", u.Name, u.Email, u.Role)
	if u.Bio != "" {
		fmt.Println(u.Bio)
	}
	links := []struct{ label, url string }{
		{"GitHub", u.GitHub}, {"LinkedIn", u.LinkedIn}, {"Twitter", u.Twitter}, {"Resume", u.Resume},
	}
	for _, l := range links {
		if l.url != "" {
			fmt.Printf("  %s: %s\n", l.label, l.url)
		}
	}
}

func (a *app) editProfile(ctx context.Context, scanner *bufio.Scanner) {
	u, err := a.data.Profile(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	schema := form.ProfileSchema()
	d := form.NewDialog(schema, a.notifier)
	form.OpenProfileDialog(d, u)
	promptFields(scanner, d, schema)

	err = d.Submit(ctx, func(ctx context.Context) error {
		_, err := a.data.UpdateProfile(ctx, form.ProfilePayload(d))
		return err
	}, "Profile updated successfully", "Failed to update profile")
	if errors.Is(err, form.ErrInvalid) {
		printFieldErrors(d, schema)
	}
}

func (a *app) listProjects(ctx context.Context) {
	projects, err := a.data.Projects(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	if len(projects) == 0 {
		fmt.Println("No projects yet. Use 'add-project'.")
		return
	}
	for _, p := range projects {
		status := ""
		if p.Status != "" {
			status = fmt.Sprintf(" [%s]", p.Status)
		}
		fmt.Printf("ID: %d%s %s — %s\n", p.ID, status, p.Title, p.Description)
		if len(p.TechStack) > 0 {
			fmt.Printf("    tech: %s\n", strings.Join(p.TechStack, ", "))
		}
		fmt.Printf("    media: %d image(s), %d video(s)\n", len(p.Images), len(p.Videos))
	}
}

func (a *app) editProjectByID(ctx context.Context, scanner *bufio.Scanner, args []string) {
	id, ok := parseID(args, "edit-project")
	if !ok {
		return
	}
	p, err := a.findProject(ctx, id)
	if err != nil {
		reportFetchError(err)
		return
	}
	if p == nil {
		fmt.Println("Project not found")
		return
	}
	a.editProject(ctx, scanner, p)
}

// editProject drives the project dialog for create (p == nil) or edit mode.
func (a *app) editProject(ctx context.Context, scanner *bufio.Scanner, p *models.Project) {
	schema := form.ProjectSchema()
	d := form.NewDialog(schema, a.notifier)
	form.OpenProjectDialog(d, p)
	promptFields(scanner, d, schema)
	a.promptMedia(ctx, scanner, d, []string{"project-media"}, true)

	successMsg := "Project created successfully"
	if d.Mode() == form.ModeEdit {
		successMsg = "Project updated successfully"
	}
	err := d.Submit(ctx, func(ctx context.Context) error {
		payload := form.ProjectPayload(d)
		if d.Mode() == form.ModeEdit {
			_, err := a.data.UpdateProject(ctx, d.EntityID(), payload)
			return err
		}
		_, err := a.data.CreateProject(ctx, payload)
		return err
	}, successMsg, "Failed to save project")
	if errors.Is(err, form.ErrInvalid) {
		printFieldErrors(d, schema)
	}
}

func (a *app) removeProject(ctx context.Context, scanner *bufio.Scanner, args []string) {
	id, ok := parseID(args, "rm-project")
	if !ok {
		return
	}
	flow := form.NewDeleteFlow(a.notifier)
	flow.Stage(id)
	if !confirm(scanner, fmt.Sprintf("Delete project %d? This cannot be undone.", id)) {
		flow.Cancel()
		return
	}
	_ = flow.Confirm(ctx, a.data.DeleteProject, "Project deleted successfully", "Failed to delete project")
}

func (a *app) listAchievements(ctx context.Context) {
	achievements, err := a.data.Achievements(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	if len(achievements) == 0 {
		fmt.Println("No achievements yet. Use 'add-achievement'.")
		return
	}
	for _, ach := range achievements {
		date := ach.Date
		if t, err := form.ParseDate(ach.Date); err == nil {
			date = t.Format("Jan 2006")
		}
		fmt.Printf("ID: %d %s (%s) — %s\n", ach.ID, ach.Title, date, ach.Description)
	}
}

func (a *app) editAchievementByID(ctx context.Context, scanner *bufio.Scanner, args []string) {
	id, ok := parseID(args, "edit-achievement")
	if !ok {
		return
	}
	ach, err := a.findAchievement(ctx, id)
	if err != nil {
		reportFetchError(err)
		return
	}
	if ach == nil {
		fmt.Println("Achievement not found")
		return
	}
	a.editAchievement(ctx, scanner, ach)
}

func (a *app) editAchievement(ctx context.Context, scanner *bufio.Scanner, ach *models.Achievement) {
	schema := form.AchievementSchema()
	d := form.NewDialog(schema, a.notifier)
	form.OpenAchievementDialog(d, ach)
	promptFields(scanner, d, schema)
	a.promptMedia(ctx, scanner, d, []string{"achievement-image"}, false)

	successMsg := "Achievement added"
	if d.Mode() == form.ModeEdit {
		successMsg = "Achievement updated"
	}
	err := d.Submit(ctx, func(ctx context.Context) error {
		payload := form.AchievementPayload(d)
		if d.Mode() == form.ModeEdit {
			_, err := a.data.UpdateAchievement(ctx, d.EntityID(), payload)
			return err
		}
		_, err := a.data.CreateAchievement(ctx, payload)
		return err
	}, successMsg, "Failed to save achievement")
	if errors.Is(err, form.ErrInvalid) {
		printFieldErrors(d, schema)
	}
}

func (a *app) removeAchievement(ctx context.Context, scanner *bufio.Scanner, args []string) {
	id, ok := parseID(args, "rm-achievement")
	if !ok {
		return
	}
	flow := form.NewDeleteFlow(a.notifier)
	flow.Stage(id)
	if !confirm(scanner, fmt.Sprintf("Delete achievement %d? This cannot be undone.", id)) {
		flow.Cancel()
		return
	}
	_ = flow.Confirm(ctx, a.data.DeleteAchievement, "Achievement deleted successfully", "Failed to delete achievement")
}

func (a *app) showActivity(ctx context.Context) {
	activities, err := a.data.Activities(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	for _, act := range activities {
		fmt.Printf("[%s] %s — %s\n", act.Status, act.Title, act.Timestamp)
	}
}

func (a *app) showSettings(ctx context.Context) {
	settings, err := a.data.Settings(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	for _, s := range settings {
		state := "off"
		if s.Enabled {
			state = "on"
		}
		fmt.Printf("[%s] %s — %s\n", state, s.Title, s.Description)
	}
}

// viewProject runs the media viewer over a project's image/video sequence.
// Auto-advance runs in the background until the viewer is closed.
func (a *app) viewProject(ctx context.Context, scanner *bufio.Scanner, args []string) {
	id, ok := parseID(args, "view")
	if !ok {
		return
	}
	p, err := a.findProject(ctx, id)
	if err != nil {
		reportFetchError(err)
		return
	}
	if p == nil {
		fmt.Println("Project not found")
		return
	}
	v := media.NewViewer(p.Images, p.Videos)
	if v.Len() == 0 {
		fmt.Println("This project has no media")
		return
	}

	viewCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.Start(viewCtx)

	fmt.Printf("Viewing %q: %d item(s). Commands: n/p (select), z (zoom), h (hover), q (quit)\n", p.Title, v.Len())
	for {
		if item, ok := v.Selected(); ok {
			zoom := ""
			if v.Zoomed() {
				zoom = " [zoomed]"
			}
			fmt.Printf("(%d/%d) %s %s%s\n", v.SelectedIndex()+1, v.Len(), item.Kind, item.URL, zoom)
		}
		fmt.Print("viewer> ")
		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "n":
			v.Select((v.SelectedIndex() + 1) % v.Len())
		case "p":
			v.Select((v.SelectedIndex() + v.Len() - 1) % v.Len())
		case "z":
			v.SetZoomed(!v.Zoomed())
		case "h":
			v.SetHovered(!v.Hovered())
			if v.Hovered() {
				fmt.Println("auto-advance paused")
			} else {
				fmt.Println("auto-advance resumed")
			}
		case "q":
			return
		}
	}
}

// openSandbox provisions a preview sandbox and shows the two view URLs.
func (a *app) openSandbox(ctx context.Context, scanner *bufio.Scanner) {
	sb, err := a.apiClient.ProvisionSandbox(ctx)
	if err != nil {
		reportFetchError(err)
		return
	}
	view := &api.SandboxView{}
	for {
		label := "React Sandbox"
		if view.Port() == api.PortPreview {
			label = "Code Preview"
		}
		fmt.Printf("%s: %s\n", label, view.URL(sb))
		fmt.Print("t to toggle view, q to quit: ")
		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "t":
			view.Toggle()
		case "q":
			return
		}
	}
}

// findProject loads a project by id through the cache.
func (a *app) findProject(ctx context.Context, id int64) (*models.Project, error) {
	projects, err := a.data.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// findAchievement loads an achievement by id through the cache.
func (a *app) findAchievement(ctx context.Context, id int64) (*models.Achievement, error) {
	achievements, err := a.data.Achievements(ctx)
	if err != nil {
		return nil, err
	}
	for i := range achievements {
		if achievements[i].ID == id {
			return &achievements[i], nil
		}
	}
	return nil, nil
}

func parseID(args []string, cmd string) (int64, bool) {
	if len(args) < 2 {
		fmt.Printf("Usage: %s <id>\n", cmd)
		return 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("Invalid id:", args[1])
		return 0, false
	}
	return id, true
}
