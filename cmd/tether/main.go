package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tether/internal/bound"
	"tether/internal/check"
	"tether/internal/document"
	"tether/internal/logging"
	"tether/internal/match"
	"tether/internal/model"
	"tether/internal/prompt"
	"tether/internal/report"
	"tether/internal/settings"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

const flagHelp = `
Flags:
  --root DIR           project directory holding .tether/settings.yaml (default ".")
  --requirements FILE  requirements export (default requirements.json)
  --parameters FILE    CAD parameters export (default parameters.json)
  --payload FILE       update payload to write (default update_parameters.json)
  --report FILE        also write a markdown report
  --mode MODE          repair mode: nextafter or legacy-epsilon
  --strict             treat values without a number as errors
  --debug              verbose JSON logging on stderr
`

var commands = []command{
	{
		name:  "check",
		short: "Check CAD parameters against their requirements",
		usage: "tether check [flags]",
		long: `Associate every CAD parameter with the requirements whose qualified name
ends in the parameter's short name, evaluate each value against the
requirement's bound, and print the results.

Exits non-zero when any link fails or cannot be evaluated.
` + flagHelp,
		run: runCheck,
	},
	{
		name:  "fix",
		short: "Compute passing values and write the update payload",
		usage: "tether fix [flags]",
		long: `Run check, compute the nearest passing value for every failing parameter,
and write them to the update payload.

Units are carried over unchanged from the current value.
` + flagHelp,
		run: runFix,
	},
	{
		name:  "edit",
		short: "Enter new values for failing parameters by hand",
		usage: "tether edit [flags]",
		long: `Run check, then prompt for a new value for each failing parameter. An
answer must start with a number, end in a unit, and satisfy every
requirement linked to the parameter. Leave an answer empty to skip it.

Accepted answers are written to the update payload.
` + flagHelp,
		run: runEdit,
	},
}

// Replaced in tests.
var (
	stdout    io.Writer = os.Stdout
	ask                 = prompt.Ask
	newLogger           = logging.New
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "tether: requirement checks for CAD parameters\n\n")
	fmt.Fprintf(w, "Usage:\n  tether <command> [flags]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'tether help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "tether: unknown command %q\n\nRun 'tether help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(stdout, args[1])
		} else {
			printUsage(stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'tether help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// Shared run setup
// ---------------------------------------------------------------------------

// options are the flags shared by every command.
type options struct {
	root         string
	requirements string
	parameters   string
	payload      string
	report       string
	mode         string
	strict       bool
	debug        bool
}

// session is a loaded and validated project.
type session struct {
	log      *zap.Logger
	printer  *report.Printer
	opts     options
	checkOpt check.Options
	payload  string
	report   string
	outcomes []check.Outcome
	summary  check.Summary
}

func parseFlags(name string, args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.root, "root", ".", "")
	fs.StringVar(&o.requirements, "requirements", "", "")
	fs.StringVar(&o.parameters, "parameters", "", "")
	fs.StringVar(&o.payload, "payload", "", "")
	fs.StringVar(&o.report, "report", "", "")
	fs.StringVar(&o.mode, "mode", "", "")
	fs.BoolVar(&o.strict, "strict", false, "")
	fs.BoolVar(&o.debug, "debug", false, "")
	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%v\nusage: tether %s [flags]", err, name)
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q\nusage: tether %s [flags]", fs.Arg(0), name)
	}
	return o, nil
}

// resolve picks the flag value, then the settings value, and anchors
// relative paths at root.
func resolve(root, flagValue, configured string) string {
	p := configured
	if flagValue != "" {
		p = flagValue
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// reportPath anchors --report at root like the other document paths. An
// empty result means no report was requested.
func reportPath(o options) string {
	if o.report == "" {
		return ""
	}
	return resolve(o.root, o.report, "")
}

// open parses flags and builds the run logger, then loads the project. The
// logger is flushed here when loading fails, and by session.close otherwise.
func open(name string, args []string) (*session, error) {
	o, err := parseFlags(name, args)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(name, o.debug)
	if err != nil {
		return nil, err
	}
	s, err := load(o, logger)
	if err != nil {
		logger.Debug("load failed", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	return s, nil
}

// load reads settings and both documents, associates them, and validates
// every link.
func load(o options, logger *zap.Logger) (*session, error) {
	cfg, err := settings.Load(o.root)
	if err != nil {
		return nil, err
	}
	checkOpt := check.Options{
		Mode:         cfg.RepairMode(),
		StrictValues: o.strict || cfg.StrictValues(),
	}
	if o.mode != "" {
		if checkOpt.Mode, err = bound.ParseMode(o.mode); err != nil {
			return nil, err
		}
	}

	reqPath := resolve(o.root, o.requirements, cfg.RequirementsPath())
	paramPath := resolve(o.root, o.parameters, cfg.ParametersPath())
	logger.Debug("loading documents",
		zap.String("requirements", reqPath),
		zap.String("parameters", paramPath),
		zap.Stringer("mode", checkOpt.Mode),
		zap.Bool("strict", checkOpt.StrictValues))

	reqs, err := document.LoadRequirements(reqPath)
	if err != nil {
		return nil, err
	}
	params, err := document.LoadParameters(paramPath)
	if err != nil {
		return nil, err
	}
	kept := match.Filter(params, func(p model.Parameter) bool {
		return !cfg.IsExcluded(p.SlashPath())
	})
	if n := len(params) - len(kept); n > 0 {
		logger.Debug("excluded parameters", zap.Int("count", n))
	}

	links := match.Associate(kept, reqs)
	outcomes := check.Validate(links, checkOpt)
	s := &session{
		log:      logger,
		printer:  report.NewPrinter(stdout),
		opts:     o,
		checkOpt: checkOpt,
		payload:  resolve(o.root, o.payload, cfg.PayloadPath()),
		report:   reportPath(o),
		outcomes: outcomes,
		summary:  check.Summarize(outcomes),
	}
	for _, out := range outcomes {
		if out.Err != nil {
			logger.Warn("link not evaluated",
				zap.String("parameter", out.Link.Parameter.Name),
				zap.String("requirement", out.Link.Requirement.QualifiedName),
				zap.Error(out.Err))
		}
	}
	logger.Debug("validated",
		zap.Int("requirements", len(reqs)),
		zap.Int("parameters", len(kept)),
		zap.Int("links", s.summary.Links),
		zap.Int("failed", s.summary.Failed),
		zap.Int("errored", s.summary.Errored))

	s.printer.Outcomes(outcomes)
	s.printer.Errors(outcomes)
	s.printer.Status(s.summary)
	return s, nil
}

func (s *session) close() {
	_ = s.log.Sync()
}

func (s *session) writeReport(repairs []check.Repair) error {
	if s.report == "" {
		return nil
	}
	meta := report.Meta{Tool: "tether", RepairMode: s.checkOpt.Mode.String(), Summary: s.summary}
	if err := report.WriteMarkdown(s.report, meta, s.outcomes, repairs); err != nil {
		return err
	}
	s.printer.Line("report written to %s", s.report)
	return nil
}

func (s *session) writePayload(p model.Payload) error {
	if err := document.WritePayload(s.payload, p); err != nil {
		return err
	}
	s.log.Info("payload written", zap.String("path", s.payload), zap.Int("parameters", len(p.Parameters)))
	s.printer.Line("%d parameter(s) written to %s", len(p.Parameters), s.payload)
	return nil
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func runCheck(args []string) error {
	s, err := open("check", args)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.writeReport(nil); err != nil {
		return err
	}
	if !s.summary.OK() {
		return fmt.Errorf("%s", s.summary)
	}
	return nil
}

// ---------------------------------------------------------------------------
// fix
// ---------------------------------------------------------------------------

func runFix(args []string) error {
	s, err := open("fix", args)
	if err != nil {
		return err
	}
	defer s.close()

	repairs, err := check.RepairLinks(check.Failing(s.outcomes), s.checkOpt)
	if err != nil {
		return err
	}
	if err := s.writeReport(repairs); err != nil {
		return err
	}
	if len(repairs) == 0 {
		s.printer.Line("nothing to repair")
		return nil
	}
	s.printer.Repairs(repairs)
	return s.writePayload(check.Payload(repairs))
}

// ---------------------------------------------------------------------------
// edit
// ---------------------------------------------------------------------------

func runEdit(args []string) error {
	s, err := open("edit", args)
	if err != nil {
		return err
	}
	defer s.close()

	questions, err := editQuestions(check.Failing(s.outcomes))
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		s.printer.Line("nothing to edit")
		return nil
	}

	answers, err := ask(questions)
	if errors.Is(err, prompt.ErrCancelled) {
		s.printer.Line("edit cancelled, nothing written")
		return nil
	}
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	if len(answers) == 0 {
		s.printer.Line("no values entered")
		return nil
	}
	return s.writePayload(model.Payload{Parameters: answers})
}

// editQuestions builds one question per failing parameter, in first-seen
// order. An answer must satisfy every bound linked to that parameter.
func editQuestions(failing []model.Link) ([]prompt.Question, error) {
	var order []string
	current := map[string]string{}
	bounds := map[string][]bound.Bound{}
	for _, l := range failing {
		b, err := bound.Parse(l.Requirement.Bounds)
		if err != nil {
			return nil, err
		}
		name := l.Parameter.Name
		if _, seen := bounds[name]; !seen {
			order = append(order, name)
			current[name] = l.Parameter.Value
		}
		bounds[name] = append(bounds[name], b)
	}

	questions := make([]prompt.Question, 0, len(order))
	for _, name := range order {
		bs := bounds[name]
		hint := make([]string, len(bs))
		for i, b := range bs {
			hint[i] = b.String()
		}
		questions = append(questions, prompt.Question{
			Key:    name,
			Prompt: fmt.Sprintf("%s (now %s)", name, current[name]),
			Hint:   strings.Join(hint, " and "),
			Validate: func(answer string) error {
				return check.Accept(answer, bs...)
			},
		})
	}
	return questions, nil
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
