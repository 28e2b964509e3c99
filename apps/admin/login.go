package main

import (
	"context"
	"fmt"

	"github.com/gradegator/dashboard/core/user"
)

func (cli *commandLine) login(uname, pwd string) error {
	mgr, _, err := cli.manager()
	if err != nil {
		return err
	}

	sess, err := mgr.Login(context.Background(), user.Credentials{Username: uname, Password: pwd})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", sess.User.Username)
	return nil
}

func (cli *commandLine) logout() error {
	mgr, _, err := cli.manager()
	if err != nil {
		return err
	}
	if mgr.Current() == nil {
		fmt.Println("Already logged out")
		return nil
	}

	mgr.Logout(context.Background())
	fmt.Println("Logged out")
	return nil
}
