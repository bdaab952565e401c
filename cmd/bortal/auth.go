package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bortal/bortal-go/internal/models"
	"github.com/bortal/bortal-go/internal/session"
)

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and persist the session" }
func (*loginCmd) Usage() string {
	return `bortal login [-u <username>] [-p <password>]

  Signs in and stores the session file. Omitted credentials are prompted for.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password (prompted when omitted).")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	if c.username == "" {
		c.username = promptLine("Username")
	}
	if c.password == "" {
		c.password = promptLine("Password")
	}

	user, err := a.session.Login(ctx, a.auth, c.username, c.password)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Email)
	return subcommands.ExitSuccess
}

type registerCmd struct {
	username  string
	email     string
	password  string
	firstName string
	lastName  string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account and sign in" }
func (*registerCmd) Usage() string {
	return `bortal register -u <username> -e <email> [-p <password>] [-first <name>] [-last <name>]

  Creates an account; on success the new session is stored immediately.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.email, "e", "", "Email address.")
	f.StringVar(&c.password, "p", "", "Password (prompted when omitted).")
	f.StringVar(&c.firstName, "first", "", "First name.")
	f.StringVar(&c.lastName, "last", "", "Last name.")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	if c.username == "" || c.email == "" {
		fmt.Fprintln(os.Stderr, "Error: -u and -e are required")
		return subcommands.ExitUsageError
	}
	if c.password == "" {
		c.password = promptLine("Password")
	}

	user, err := a.session.Register(ctx, a.auth, &models.RegisterRequest{
		Username:  c.username,
		Email:     c.email,
		Password:  c.password,
		FirstName: c.firstName,
		LastName:  c.lastName,
	})
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Account created; signed in as %s\n", user.Username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "sign out and remove the session file" }
func (*logoutCmd) Usage() string {
	return `bortal logout

  Invalidates the refresh token server-side (best effort) and clears local state.
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	if err := a.session.Logout(ctx, a.auth); err != nil {
		return fail(err)
	}
	fmt.Println("Signed out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct {
	refresh bool
}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the current session" }
func (*whoamiCmd) Usage() string {
	return `bortal whoami [-refresh]

  Shows the cached session state; -refresh re-fetches the profile first.
`
}

func (c *whoamiCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Re-fetch the profile before printing.")
}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}

	if a.session.State() != session.StateAuthenticated {
		fmt.Println("Not signed in")
		return subcommands.ExitSuccess
	}

	if c.refresh {
		a.session.RefreshProfile(ctx, a.auth)
	}

	user := a.session.User()
	if user == nil {
		fmt.Println("Signed in (profile not cached yet; try `bortal whoami -refresh`)")
		return subcommands.ExitSuccess
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Email)
	if name := user.FirstName + " " + user.LastName; name != " " {
		fmt.Printf("Name:          %s\n", name)
	}
	if exp, ok := a.session.AccessTokenExpiresAt(); ok {
		status := "valid"
		if a.session.AccessTokenExpired() {
			status = "expired; will be refreshed on the next request"
		}
		fmt.Printf("Access token:  %s (expires %s)\n", status, exp.Format("2006-01-02 15:04:05"))
	}
	return subcommands.ExitSuccess
}
