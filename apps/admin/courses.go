package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gradegator/dashboard/core/course"
)

func (cli *commandLine) courses() error {
	mgr, cl, err := cli.manager()
	if err != nil {
		return err
	}
	if mgr.Current() == nil {
		return errLoggedOut
	}

	ctx := context.Background()
	if err := mgr.Init(ctx); err != nil {
		return err
	}
	if !mgr.IsAuthenticated() {
		return errLoggedOut
	}

	crsSvc := course.NewService(cl)
	courses, err := crsSvc.List(ctx)
	if err != nil {
		return err
	}

	currentTerm := course.CurrentTerm(time.Now())
	current, past := course.Split(courses, currentTerm)
	course.SortCourses(past, course.SortBySemester)

	fmt.Printf("Current semester (%s):\n", currentTerm)
	printCourses(current)
	fmt.Println("Past courses:")
	printCourses(past)
	return nil
}

func printCourses(courses []course.Course) {
	if len(courses) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, crs := range courses {
		fmt.Printf("  [%d] %s (%s, %s)\n", crs.ID, crs.Name, crs.Number, crs.Term)
	}
}
