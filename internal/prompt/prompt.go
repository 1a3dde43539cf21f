package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"wp-init/internal/config"
	"wp-init/internal/theme"
)

// ErrInputClosed is returned when the input ends before every question was answered
var ErrInputClosed = errors.New("input closed before all questions were answered")

const yesNoRetry = `Please answer either "y" for "yes" or "n" for "no": `

// Prompter asks the installation questions line by line
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompter reading answers from in and writing questions to out
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask runs the full question sequence for catalog and returns the collected answers
func (p *Prompter) Ask(catalog *config.Catalog) (*config.Answers, error) {
	answers := &config.Answers{Plugins: []string{}}
	var err error

	if answers.ThemeName, err = p.themeName(); err != nil {
		return nil, err
	}
	if answers.ThemeAuthor, err = p.text("Name of the theme author (leave blank to skip): "); err != nil {
		return nil, err
	}
	if answers.AuthorURI, err = p.text("Theme author's website url (leave blank to skip): "); err != nil {
		return nil, err
	}

	if answers.RemovePlugins, err = p.yesNo("Remove pre-added (standard) plugins from your new WordPress installation (y/n)? "); err != nil {
		return nil, err
	}
	if answers.RemoveThemes, err = p.yesNo("Remove pre-added (standard) themes from your new WordPress installation (y/n)? "); err != nil {
		return nil, err
	}
	if answers.AutoInstall, err = p.yesNo("Install all necessary npm packages in the theme directory upon completion (y/n)? "); err != nil {
		return nil, err
	}

	for _, name := range catalog.PluginNames() {
		install, err := p.yesNo(fmt.Sprintf("Do you wish to install this plugin: %s (y/n)? ", name))
		if err != nil {
			return nil, err
		}
		if install {
			answers.Plugins = append(answers.Plugins, name)
		}
	}

	return answers, nil
}

// themeName asks until a usable theme name is given
func (p *Prompter) themeName() (string, error) {
	question := "Name your new WordPress theme: "

	for {
		input, err := p.line(question)
		if err != nil {
			return "", err
		}

		name, err := theme.SanitizeName(input)
		switch {
		case errors.Is(err, theme.ErrEmptyName):
			continue
		case err != nil:
			fmt.Fprintf(p.out, "%v\n", err)
			continue
		}

		return name, nil
	}
}

func (p *Prompter) text(question string) (string, error) {
	input, err := p.line(question)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(input), nil
}

func (p *Prompter) yesNo(question string) (bool, error) {
	for {
		input, err := p.line(question)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}

		question = yesNoRetry
	}
}

// line prints question and reads one line of input
func (p *Prompter) line(question string) (string, error) {
	fmt.Fprint(p.out, question)

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", ErrInputClosed
	}

	return p.in.Text(), nil
}
