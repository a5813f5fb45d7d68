package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/command"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/session"
	"github.com/cory-johannsen/blb/internal/game/sheet"
	"github.com/cory-johannsen/blb/internal/server"
	"github.com/cory-johannsen/blb/internal/storage"
)

// source names where a character comes from: a YAML file or a stored ID.
type source struct {
	path string
	id   string
}

func (src *source) register(fs *flag.FlagSet) {
	fs.StringVar(&src.path, "sheet", "", "path to a character YAML file")
	fs.StringVar(&src.id, "id", "", "ID of a stored character")
}

// load reads the record and returns the store its edits are written back to.
//
// Postcondition: edits to a file-loaded character are saved to the file and, when a
// backend is configured, to the repository as well.
func (a *app) load(ctx context.Context, src source) (sheet.Record, sheet.Store, error) {
	switch {
	case src.path != "" && src.id != "":
		return sheet.Record{}, nil, errors.New("use either -sheet or -id, not both")
	case src.path != "":
		rec, err := sheet.LoadFile(src.path)
		if err != nil {
			return sheet.Record{}, nil, err
		}
		stores := sheet.Stores{sheet.FileStore{Path: src.path}}
		if a.repo != nil {
			stores = append(stores, a.repo)
		}
		return rec, stores, nil
	case src.id != "":
		if err := a.requireRepo(); err != nil {
			return sheet.Record{}, nil, err
		}
		rec, err := a.repo.Get(ctx, src.id)
		if err != nil {
			return sheet.Record{}, nil, err
		}
		return rec, a.repo, nil
	}
	return sheet.Record{}, nil, errors.New("one of -sheet or -id is required")
}

func (a *app) runNew(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	name := fs.String("name", "", "character name (required)")
	kit := fs.String("kit", "", "starting kit to copy items from")
	archetype := fs.String("archetype", "", "character archetype")
	race := fs.String("race", "", "character race")
	out := fs.String("out", "", "path of the character YAML file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}
	if *out == "" && a.repo == nil {
		return errors.New("-out is required when no storage backend is configured")
	}

	ch := character.New(*name)
	ch.Archetype = *archetype
	ch.Race = *race
	rec := sheet.Record{Character: ch}
	if *kit != "" {
		k, ok := a.kits[*kit]
		if !ok {
			return fmt.Errorf("unknown kit %q; available: %s", *kit, strings.Join(inventory.KitNames(a.kits), ", "))
		}
		rec.Items = k.Instantiate()
	}

	// Building the sheet validates the record and assigns item IDs.
	s, err := a.build(rec, nil, nil)
	if err != nil {
		return err
	}
	rec = s.Record()

	if *out != "" {
		if err := (sheet.FileStore{Path: *out}).Save(ctx, rec); err != nil {
			return err
		}
	}
	if a.repo != nil {
		if err := a.repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("storing character: %w", err)
		}
	}
	fmt.Fprintf(os.Stdout, "created %s (%s) with %d items\n", ch.Name, ch.ID, len(rec.Items))
	return nil
}

func (a *app) runExec(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	var src source
	src.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("expected a command, e.g. exec -sheet maud.yaml roll brawn")
	}

	rec, store, err := a.load(ctx, src)
	if err != nil {
		return err
	}
	s, err := a.build(rec, store, command.WriterSink{W: os.Stdout})
	if err != nil {
		return err
	}
	exec := command.NewExecutor(command.DefaultRegistry(), os.Stdout)
	return exec.Execute(ctx, s, strings.Join(fs.Args(), " "))
}

// runShell runs the shell under a Lifecycle so an interrupt ends it cleanly.
func (a *app) runShell(ctx context.Context, args []string, in io.Reader) error {
	lc := server.NewLifecycle(a.logger)
	lc.Add("shell", &server.FuncService{
		StartFn: func(ctx context.Context) error { return a.shell(ctx, args, in, os.Stdout) },
	})
	return lc.Run(ctx)
}

// shell reads commands from in until EOF, "quit", or cancellation, printing results and
// roll messages to out. Command errors are printed and do not end the shell.
func (a *app) shell(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	var src source
	src.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rec, store, err := a.load(ctx, src)
	if err != nil {
		return err
	}

	mgr := session.NewManager(func(rec sheet.Record, chat sheet.ChatSink) (*sheet.Sheet, error) {
		return a.build(rec, store, chat)
	}, 16)
	sess, err := mgr.Open(rec)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close(sess.ID) }()

	exec := command.NewExecutor(command.DefaultRegistry(), out)
	fmt.Fprintf(out, "%s opened; type help for commands, quit to leave\n", sess.Name)

	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		err := sess.Do(func(s *sheet.Sheet) error {
			return exec.Execute(ctx, s, line)
		})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		for _, msg := range sess.Feed.Drain() {
			fmt.Fprint(out, command.RenderMessage(msg))
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func (a *app) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	path := fs.String("sheet", "", "path to the character YAML file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("-sheet is required")
	}
	if err := a.requireRepo(); err != nil {
		return err
	}
	rec, err := sheet.LoadFile(*path)
	if err != nil {
		return err
	}
	s, err := a.build(rec, nil, nil)
	if err != nil {
		return err
	}
	if err := a.repo.Save(ctx, s.Record()); err != nil {
		return fmt.Errorf("storing character: %w", err)
	}
	fmt.Fprintf(os.Stdout, "imported %s (%s)\n", s.Character().Name, s.ID())
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	id := fs.String("id", "", "ID of the stored character (required)")
	out := fs.String("out", "", "path of the character YAML file to write (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *out == "" {
		return errors.New("-id and -out are required")
	}
	if err := a.requireRepo(); err != nil {
		return err
	}
	rec, err := a.repo.Get(ctx, *id)
	if err != nil {
		return err
	}
	if err := (sheet.FileStore{Path: *out}).Save(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "exported %s to %s\n", rec.Character.Name, *out)
	return nil
}

func (a *app) runList(ctx context.Context, args []string) error {
	if err := a.requireRepo(); err != nil {
		return err
	}
	summaries, err := a.repo.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, renderSummaries(summaries))
	return nil
}

func renderSummaries(summaries []storage.Summary) string {
	if len(summaries) == 0 {
		return "No stored characters.\n"
	}
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-36s  %-24s  %s\n", s.ID, s.Name, s.Archetype)
	}
	return b.String()
}

func (a *app) runKits(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %v", args)
	}
	fmt.Fprint(os.Stdout, renderKits(a.kits))
	return nil
}

func renderKits(kits map[string]*inventory.Kit) string {
	if len(kits) == 0 {
		return "No kits loaded.\n"
	}
	var b strings.Builder
	for _, name := range inventory.KitNames(kits) {
		fmt.Fprintf(&b, "%s (%d items)\n", name, len(kits[name].Items))
	}
	return b.String()
}
