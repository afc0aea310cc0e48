package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/zhulingfeng1993/irrewrite/rw"
)

const (
	historyFile = ".rwrepl_history"
	prompt      = "rw> "
)

var banner = "irrewrite REPL\nEnter an expression (e.g. \"y + 0\", \"min(a+1, a+1)\"). :rules lists the active rules, :quit exits."

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	fmt.Println(banner)

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatal(err)
	}
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		f, err := os.Create(histPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, red("could not save history: "+err.Error()))
			return
		}
		if _, err := ln.WriteHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, red("could not write history: "+err.Error()))
		}
		_ = f.Close()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	} else if !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, red("could not read history: "+err.Error()))
	}

	rules := builtinRules()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		switch line {
		case ":quit":
			return
		case ":rules":
			printRules(rules)
			continue
		}

		expr, err := parseExpr(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Printf("  parsed: %s\n", formatNode(expr))

		result, matched := rw.ApplyRules(expr, rules)
		if !matched {
			fmt.Println("  no rule fired")
			continue
		}
		fmt.Printf("  =>      %s\n", formatNode(result))
	}
}

func printRules(rules []rw.Rule) {
	for i := range rules {
		fmt.Printf("  [%d] rule\n", i)
	}
}
