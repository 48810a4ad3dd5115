package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/juho05/log"

	"github.com/juho05/jobmatch/access"
	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/config"
	"github.com/juho05/jobmatch/listing"
	"github.com/juho05/jobmatch/services"
	"github.com/juho05/jobmatch/session"
)

const usage = `USAGE jobmatch-cli <command>
COMMANDS
		- login <candidate|company> <email> <password>
		- logout
		- status
		- jobs [search]
		- apply <job-id> [cover letter]
		- applications [status] [YYYY-MM-DD]
		- applicants [skill...]
`

var errUsage = errors.New("invalid arguments")

type cli struct {
	out          io.Writer
	paths        access.Paths
	auth         services.AuthService
	jobs         services.JobService
	applications services.ApplicationService
}

// private runs fn if the session may enter the namespace of path.
func (c *cli) private(ctx context.Context, path string, fn func() error) error {
	m := session.FromContext(ctx)
	d := c.paths.PrivateOnly(access.StateOf(m), path)
	if d.Outcome == access.Render {
		return fn()
	}
	if d.Target == c.paths.Login {
		return errors.New("not logged in")
	}
	role, _ := access.Namespace(path)
	return fmt.Errorf("this command requires a %s session (logged in as %s)", role, m.Role())
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	role, err := session.ParseRole(args[0])
	if err != nil || role == session.RoleNone {
		return fmt.Errorf("invalid role: %s", args[0])
	}
	if err = c.auth.Login(ctx, role, args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Logged in as %s.\n", role)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func (c *cli) status(ctx context.Context) error {
	s := session.FromContext(ctx).Snapshot()
	if !s.Authenticated {
		fmt.Fprintln(c.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(c.out, "Logged in as %s %s.\n", s.Identity.Role, s.Identity.IdentityID)
	fmt.Fprintf(c.out, "Session expires at %s.\n", s.ExpiresAt.Local().Format(time.DateTime))
	if exp, ok := apiclient.TokenExpiry(session.FromContext(ctx).AccessToken()); ok {
		fmt.Fprintf(c.out, "Access token expires at %s.\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

func (c *cli) listJobs(ctx context.Context, args []string) error {
	return c.private(ctx, "/candidate/jobs", func() error {
		board, err := c.jobs.Board(ctx, services.JobFilter{Search: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE")
		for _, j := range board.Jobs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.CompanyName, j.Location, j.EmploymentType)
		}
		w.Flush()
		fmt.Fprintf(c.out, "%d of %d jobs\n", len(board.Jobs), board.Total)
		return nil
	})
}

func (c *cli) apply(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	return c.private(ctx, "/candidate/jobs/"+args[0], func() error {
		app, err := c.jobs.Apply(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Applied to %s (application %s).\n", args[0], app.ID)
		return nil
	})
}

func (c *cli) myApplications(ctx context.Context, args []string) error {
	var criteria listing.Criteria
	if len(args) > 0 {
		criteria.Status = args[0]
	}
	if len(args) > 1 {
		day, err := listing.ParseDay(args[1], time.Local)
		if err != nil {
			return err
		}
		criteria.Day = day
	}
	return c.private(ctx, "/candidate/home", func() error {
		list, err := c.applications.Mine(ctx, criteria)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tCOMPANY\tSTATUS\tAPPLIED\tMATCH")
		for _, a := range list.Applications {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\n", a.JobTitle, a.CompanyName, a.Status, a.AppliedAt.Local().Format(time.DateOnly), a.MatchScore)
		}
		w.Flush()
		fmt.Fprintf(c.out, "%d of %d applications\n", len(list.Applications), list.Total)
		return nil
	})
}

func (c *cli) applicants(ctx context.Context, args []string) error {
	return c.private(ctx, "/company/home", func() error {
		list, err := c.applications.Company(ctx, listing.Criteria{Skills: args, Sort: listing.SortScore})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCANDIDATE\tJOB\tSTATUS\tMATCH\tSKILLS")
		for _, a := range list.Applications {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n", a.ID, a.CandidateName, a.JobTitle, a.Status, a.MatchScore, strings.Join(a.SkillNames(), ", "))
		}
		w.Flush()
		fmt.Fprintf(c.out, "%d of %d applications\n", len(list.Applications), list.Total)
		return nil
	})
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		return c.logout(ctx)
	case "status":
		return c.status(ctx)
	case "jobs":
		return c.listJobs(ctx, args[1:])
	case "apply":
		return c.apply(ctx, args[1:])
	case "applications":
		return c.myApplications(ctx, args[1:])
	case "applicants":
		return c.applicants(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func run(args []string) error {
	client, err := apiclient.New(config.APIBaseURL(), apiclient.Options{
		Timeout:           config.APITimeout(),
		RequestsPerSecond: config.APIRequestsPerSecond(),
	})
	if err != nil {
		return fmt.Errorf("initialize API client: %w", err)
	}

	store := session.NewFileStore(config.SessionFile(), config.SessionPassphrase())
	m := session.NewManager(store, session.WithTTL(config.SessionTTL()))
	ctx := session.NewContext(context.Background(), m)
	m.Bootstrap(ctx)
	log.Tracef("Session file: %s", store.Path())

	c := &cli{
		out:          os.Stdout,
		paths:        access.DefaultPaths(),
		auth:         services.NewAuthService(client),
		jobs:         services.NewJobService(client),
		applications: services.NewApplicationService(client),
	}
	return c.dispatch(ctx, args)
}

func main() {
	godotenv.Load()

	log.SetSeverity(config.LogLevel())
	log.SetOutput(config.LogFile())

	err := run(os.Args[1:])
	if errors.Is(err, errUsage) {
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
