package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"coursemarket/internal/client"
	"coursemarket/internal/config"
)

const usage = `usage: coursectl [flags] <command>

commands:
  publish <outline.yaml>   create a course from a YAML outline
  list                     list your courses
  become-educator          grant your account the educator role
`

func main() {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.APIBaseURL, "address of the course API")
	token := flag.String("token", os.Getenv("MARKET_API_TOKEN"), "Firebase ID token of the author")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() < 1 || *token == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*apiURL, *token, nil)
	if err := run(ctx, c, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, args []string) error {
	switch args[0] {
	case "publish":
		if len(args) != 2 {
			return fmt.Errorf("publish takes one outline file")
		}
		return publish(ctx, c, args[1])
	case "list":
		courses, err := c.EducatorCourses(ctx)
		if err != nil {
			return err
		}
		for _, course := range courses {
			fmt.Printf("%v\t%v\t%.2f\t%d students\n", course.ID, course.Title, course.Price, len(course.EnrolledStudents))
		}
		return nil
	case "become-educator":
		if err := c.BecomeEducator(ctx); err != nil {
			return err
		}
		fmt.Println("✅ You can publish a course now. Sign in again to refresh your token.")
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func publish(ctx context.Context, c *client.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	outline, err := readOutline(f)
	if err != nil {
		return err
	}

	course, err := outline.Draft().Submit(ctx, c)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Published %q as %v\n", course.Title, course.ID)
	return nil
}
