package main

import (
	"context"
	"fmt"
	"strings"
)

func (cli *commandLine) whoami() error {
	mgr, _, err := cli.manager()
	if err != nil {
		return err
	}
	if mgr.Current() == nil {
		return errLoggedOut
	}

	if err := mgr.Init(context.Background()); err != nil {
		return err
	}
	if !mgr.IsAuthenticated() {
		return errLoggedOut
	}

	usr := mgr.State().User
	var roles []string
	if usr.IsStaff {
		roles = append(roles, "staff")
	}
	if usr.HasInstructorRole() {
		roles = append(roles, "instructor")
	}
	if usr.HasStudentRole() {
		roles = append(roles, "student")
	}
	if len(roles) == 0 {
		roles = append(roles, "no role")
	}

	fmt.Printf("%s <%s> (%s)\n", usr.Username, usr.Email, strings.Join(roles, ", "))
	return nil
}
