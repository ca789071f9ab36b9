package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/override"
)

var errHelp = errors.New("provided help")

type commandLine struct {
	catalogSvc  *catalog.Service
	overrideSvc *override.Service
}

func (cli commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "checkchain":
		return cli.checkChain()
	case "reviewoverride":
		return cli.reviewOverride(args[2:])
	case "-h", "--help", "help":
		cli.printUsage()
		return errHelp
	default:
		cli.printUsage()
		return fmt.Errorf("unknown command %q", args[1])
	}
}

func (cli commandLine) printUsage() {
	fmt.Println(`Usage:
  admin <command> [arguments]

Commands:
  checkchain        validate the active prerequisite graph for circular chains
  reviewoverride    approve or deny a pending override request`)
}

// checkChain loads every active rule's edges and reports the first circular
// prerequisite chain found, if any.
func (cli commandLine) checkChain() error {
	res, err := cli.catalogSvc.CheckChain()
	if err != nil {
		return err
	}
	if !res.OK {
		fmt.Println(res.Message)
		return fmt.Errorf("cycle detected: %s", strings.Join(res.Cycle, " -> "))
	}
	fmt.Println("prerequisite graph OK: no circular chains")
	return nil
}

func (cli commandLine) reviewOverride(args []string) error {
	fs := flag.NewFlagSet("reviewoverride", flag.ContinueOnError)
	id := fs.String("id", "", "override request id")
	approve := fs.Bool("approve", false, "approve the request")
	deny := fs.Bool("deny", false, "deny the request")
	reviewer := fs.String("reviewer", "", "reviewer identity")
	comment := fs.String("comment", "", "review comment")
	expires := fs.String("expires", "", "approval expiry (RFC3339, optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *approve == *deny {
		return errors.New("exactly one of -approve or -deny is required")
	}
	ovrID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid -id: %v", err)
	}

	if *deny {
		ovr, err := cli.overrideSvc.Deny(ovrID, *reviewer, *comment)
		if err != nil {
			return err
		}
		fmt.Printf("override %s denied by %s\n", ovr.ID, ovr.ReviewedBy.String)
		return nil
	}

	var expiresAt *time.Time
	if *expires != "" {
		t, err := time.Parse(time.RFC3339, *expires)
		if err != nil {
			return fmt.Errorf("invalid -expires: %v", err)
		}
		expiresAt = &t
	}
	ovr, err := cli.overrideSvc.Approve(ovrID, *reviewer, *comment, expiresAt)
	if err != nil {
		return err
	}
	fmt.Printf("override %s approved by %s, expires %s\n", ovr.ID, ovr.ReviewedBy.String, ovr.ExpiresAt.Time.Format(time.RFC3339))
	return nil
}
