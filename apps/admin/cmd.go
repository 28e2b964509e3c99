package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/client"
	"github.com/gradegator/dashboard/core/session"
	"github.com/gradegator/dashboard/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp      = errors.New("help provided")
	errLoggedOut = errors.New("not logged in; run: gatorctl login -username USERNAME")
)

type commandLine struct {
	conf   *core.Config
	store  fileStore
	logger core.Logger
}

// fileStore narrows the session store to what the CLI needs: the single
// persisted session, loadable without knowing its id.
type fileStore interface {
	session.Store
	Load() (session.Session, error)
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -username USERNAME - log in; the password will be prompted")
	fmt.Println("  logout                   - log out and forget the stored session")
	fmt.Println("  whoami                   - show the logged-in account")
	fmt.Println("  courses                  - list your courses")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "Your username. The password will be prompted next.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginUname, string(pwd))
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	case "courses":
		return cli.courses()
	default:
		cli.printUsage()
		return errHelp
	}
}

// manager builds a session manager rehydrated from the stored session, with
// an HTTP client carrying the session's backend cookies. A missing session
// file yields a manager in the logged-out state. The client is shared so
// other services reuse the same cookie jar.
func (cli *commandLine) manager() (*session.Manager, *client.Client, error) {
	sess, err := cli.store.Load()
	loggedIn := err == nil
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return nil, nil, err
	}

	cl, err := client.NewWithCookies(cli.conf, sess.HTTPCookies())
	if err != nil {
		return nil, nil, err
	}
	mgr := session.NewManager(user.NewService(cl), cli.store, cli.logger)
	if loggedIn {
		mgr.Rehydrate(sess)
	}
	return mgr, cl, nil
}
