package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sidefold/sidefold/internal/app"
	"github.com/sidefold/sidefold/internal/content"
	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/render"
	"github.com/sidefold/sidefold/internal/termui"
)

func main() {
	diffMode := flag.Bool("diff", false, "print a non-interactive colorized diff instead of launching the TUI")
	noColor := flag.Bool("no-color", false, "disable ANSI color in -diff mode")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sidefold <file1> <file2>")
		os.Exit(2)
	}
	leftPath, rightPath := args[0], args[1]

	if *diffMode {
		changed, err := runDiff(leftPath, rightPath, !*noColor)
		if err != nil {
			log.Fatal(err)
		}
		if changed {
			os.Exit(1)
		}
		return
	}

	if err := termui.RunTUI(app.New(leftPath, rightPath), termui.Options{}); err != nil {
		log.Fatal(err)
	}
}

// runDiff is the non-interactive mode: load both files, compute the hunks,
// and print a colorized unified diff without entering raw mode at all. The
// returned bool reports whether any non-Equal hunk exists, so main can exit
// 1 on a difference and 0 on identical inputs.
func runDiff(leftPath, rightPath string, color bool) (bool, error) {
	leftSrc, err := content.Load(leftPath)
	if err != nil {
		return false, err
	}
	defer leftSrc.Close()

	rightSrc, err := content.Load(rightPath)
	if err != nil {
		return false, err
	}
	defer rightSrc.Close()

	left := fileview.New(leftSrc)
	right := fileview.New(rightSrc)
	hunks, err := diffcore.Compute(left, right)
	if err != nil {
		return false, err
	}

	changed := false
	for _, h := range hunks {
		if h.Op != diffcore.OpEqual {
			changed = true
			break
		}
	}

	fmt.Println(render.SummaryLine(leftPath, rightPath, hunks))
	fmt.Println(render.RenderUnified(left, right, hunks, color, 3))
	return changed, nil
}
