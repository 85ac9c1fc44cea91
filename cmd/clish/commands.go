package main

import (
	"fmt"
	"strings"
	"time"

	"clish/internal/version"
	"clish/pkg/command"
	"clish/pkg/shell"
)

func registerCommands(sh *shell.Shell) {
	sh.Register(echoCommand(), "print")
	sh.Register(sumCommand(), "add")
	sh.Register(greetCommand())
	sh.Register(sleepCommand())
	sh.Register(infoCommand(sh))
	sh.Register(versionCommand(), "v")
}

func mustAdd(cmd *command.Command, args ...command.Argument) *command.Command {
	for _, a := range args {
		if err := cmd.AddArgument(a); err != nil {
			panic(err)
		}
	}
	return cmd
}

var (
	echoText  = command.Free[string]("text", true)
	echoUpper = command.Named[bool]("u", "upper", "print in upper case; goes after the text", false,
		command.WithConverter(command.ToBool))
)

func echoCommand() *command.Command {
	cmd := command.New("echo", "Print text, e.g. echo hello -u",
		command.HandlerFunc(func(s command.Session, _ *command.Command, b *command.Binding) error {
			text, _ := echoText.From(b)
			if upper, _ := echoUpper.From(b); upper {
				text = strings.ToUpper(text)
			}
			s.Println(text)
			return nil
		}))
	return mustAdd(cmd, echoText, echoUpper)
}

var (
	sumFirst  = command.Free[int]("first addend", true, command.WithConverter(command.ToInt))
	sumSecond = command.Free[int]("second addend", true, command.WithConverter(command.ToInt))
	sumThird  = command.Free[int]("optional third addend", false, command.WithConverter(command.ToInt))
)

func sumCommand() *command.Command {
	cmd := command.New("sum", "Add two or three integers",
		command.HandlerFunc(func(s command.Session, _ *command.Command, b *command.Binding) error {
			total := 0
			for _, arg := range []*command.Arg[int]{sumFirst, sumSecond, sumThird} {
				if v, ok := arg.From(b); ok {
					total += v
				}
			}
			s.Println(total)
			return nil
		}))
	return mustAdd(cmd, sumFirst, sumSecond, sumThird)
}

var (
	greetName  = command.Named[string]("n", "name", "who to greet", true)
	greetTimes = command.Named[int]("t", "times", "how many times", false,
		command.WithConverter(command.ToInt),
		command.WithValidator(command.NonNegative))
)

func greetCommand() *command.Command {
	cmd := command.New("greet", "Greet someone by name",
		command.HandlerFunc(func(s command.Session, _ *command.Command, b *command.Binding) error {
			name, _ := greetName.From(b)
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("name must not be blank")
			}
			times, ok := greetTimes.From(b)
			if !ok {
				times = 1
			}
			for i := 0; i < times; i++ {
				s.Printf("Hello, %s!\n", name)
			}
			return nil
		}))
	return mustAdd(cmd, greetName, greetTimes)
}

var sleepFor = command.Free[time.Duration]("duration such as 500ms or 2s", true,
	command.WithConverter(command.ToDuration),
	command.WithValidator(command.Check(func(d time.Duration) bool { return d >= 0 }, "duration must not be negative")))

func sleepCommand() *command.Command {
	cmd := command.New("sleep", "Wait in the background, then report",
		command.HandlerFunc(func(s command.Session, _ *command.Command, b *command.Binding) error {
			d, _ := sleepFor.From(b)
			time.Sleep(d)
			s.Printf("slept %s\n", d)
			return nil
		}), command.Concurrent())
	return mustAdd(cmd, sleepFor)
}

var infoText = command.Free[string]("text shown in the prompt", false)

func infoCommand(sh *shell.Shell) *command.Command {
	cmd := command.New("info", "Set or clear the prompt information",
		command.HandlerFunc(func(_ command.Session, _ *command.Command, b *command.Binding) error {
			text, _ := infoText.From(b)
			sh.SetInfo(text)
			return nil
		}))
	return mustAdd(cmd, infoText)
}

var (
	versionDetail = command.Named[string]("d", "detail", "show build details", false,
		command.WithValidator(command.EmptyValue))
	versionCheck = command.Named[string]("c", "check", "version constraint such as \">= 0.1\"", false)
)

func versionCommand() *command.Command {
	cmd := command.New("version", "Show version information",
		command.HandlerFunc(func(s command.Session, _ *command.Command, b *command.Binding) error {
			if constraint, ok := versionCheck.From(b); ok {
				satisfied, err := version.Satisfies(constraint)
				if err != nil {
					return err
				}
				s.Printf("%s satisfies %q: %t\n", version.Version, constraint, satisfied)
				return nil
			}
			if b.IsFilled(versionDetail) {
				s.Println(version.GetDetailedVersion())
				return nil
			}
			s.Println(version.GetFormattedVersion())
			return nil
		}))
	return mustAdd(cmd, versionDetail, versionCheck)
}
