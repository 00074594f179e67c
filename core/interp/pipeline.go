package interp

// Stage describes one pipeline segment: the command word, its
// arguments, and any redirections that rebind its streams. Stages are
// immutable once built.
type Stage struct {
	Name      string
	Args      []string
	Redirects []Redirect
}

// argv returns the full argument vector with the command name first.
func (s Stage) argv() []string {
	return append([]string{s.Name}, s.Args...)
}

// Pipeline is an ordered chain of stages connected stdout to stdin.
type Pipeline struct {
	Stages []Stage
}

// Parse splits a tokenized command line on unquoted pipe tokens and
// builds one stage per segment. A segment left without a command, by a
// stray pipe or because it held only redirections, is an
// EmptyStageError. Parse never touches the filesystem, so a line that
// fails here has no side effects. An empty token stream yields nil.
func Parse(toks []Token) (*Pipeline, error) {
	if len(toks) == 0 {
		return nil, nil
	}

	var p Pipeline
	addStage := func(seg []Token) error {
		index := len(p.Stages)
		if len(seg) == 0 {
			return &EmptyStageError{Index: index}
		}
		argv, plan, err := ExtractRedirects(seg)
		if err != nil {
			return err
		}
		if len(argv) == 0 {
			return &EmptyStageError{Index: index}
		}
		p.Stages = append(p.Stages, Stage{
			Name:      argv[0],
			Args:      argv[1:],
			Redirects: plan,
		})
		return nil
	}

	start := 0
	for i, t := range toks {
		if !t.IsPipe() {
			continue
		}
		if err := addStage(toks[start:i]); err != nil {
			return nil, err
		}
		start = i + 1
	}
	if err := addStage(toks[start:]); err != nil {
		return nil, err
	}
	return &p, nil
}
