package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/pipeline"
	"github.com/matzehuels/floatpos/pkg/scene"
)

const (
	defaultPlayStep = 8
	maxPlayStep     = 128
)

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		job  string
		step float64
		cols int
	)

	cmd := &cobra.Command{
		Use:   "play [scene]",
		Short: "Move a job's reference around and watch it follow",
		Long: `Move a job's reference around and watch the floating element follow.

Arrow keys (or hjkl) move the reference, tab cycles the requested placement,
+ and - change the step and r restores the scene. Every change reruns the
job's middleware chain, so flips, shifts and resizes show up immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args[0], job, step, cols)
		},
	}

	cmd.Flags().StringVarP(&job, "job", "j", "", "job to play with (default: first job)")
	cmd.Flags().Float64Var(&step, "step", defaultPlayStep, "distance moved per key press")
	cmd.Flags().IntVarP(&cols, "width", "w", defaultCanvasCols, "canvas width in terminal columns")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, path, jobID string, step float64, cols int) error {
	s, err := scene.Load(path)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", path, err)
	}

	// The program owns the terminal, so the runner must not log.
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	m, err := newPlayModel(ctx, runner, s, jobID)
	if err != nil {
		return err
	}
	m.step, m.cols = step, cols

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// playModel - Interactive positioning
// =============================================================================

// playModel reruns one job whenever its reference moves or its placement
// changes.
type playModel struct {
	ctx    context.Context
	runner *pipeline.Runner

	scene     *scene.Scene
	reference geom.Rect // starting rect of the reference
	job       scene.Job
	requested geom.Placement

	step   float64
	cols   int
	result pipeline.JobResult
	err    error
}

func newPlayModel(ctx context.Context, runner *pipeline.Runner, s *scene.Scene, jobID string) (playModel, error) {
	if len(s.Jobs) == 0 {
		return playModel{}, errors.New(errors.ErrCodeInvalidScene, "scene has no jobs")
	}
	job := s.Jobs[0]
	if jobID != "" {
		var ok bool
		if job, ok = s.Job(jobID); !ok {
			return playModel{}, errors.New(errors.ErrCodeNotFound, "unknown job %q", jobID)
		}
	}
	if job.Placement.IsZero() {
		job.Placement = geom.DefaultPlacement
	}

	s = s.Clone()
	s.Jobs = []scene.Job{job}
	m := playModel{
		ctx:       ctx,
		runner:    runner,
		scene:     s,
		reference: s.Elements[job.Reference].Rect,
		job:       job,
		requested: job.Placement,
		step:      defaultPlayStep,
		cols:      defaultCanvasCols,
	}
	m.recompute()
	return m, nil
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var err error
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			err = m.move(-m.step, 0)
		case "right", "l":
			err = m.move(m.step, 0)
		case "up", "k":
			err = m.move(0, -m.step)
		case "down", "j":
			err = m.move(0, m.step)
		case "tab":
			m.cyclePlacement(1)
		case "shift+tab":
			m.cyclePlacement(-1)
		case "+", "=":
			m.step = min(m.step*2, maxPlayStep)
			return m, nil
		case "-":
			m.step = max(m.step/2, 1)
			return m, nil
		case "r":
			err = m.setReference(m.reference)
			m.job.Placement = m.requested
			m.scene.Jobs[0] = m.job
		default:
			return m, nil
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.recompute()
	case tea.WindowSizeMsg:
		m.cols = msg.Width - 2
	}
	return m, nil
}

func (m *playModel) move(dx, dy float64) error {
	el, ok := m.scene.Elements[m.job.Reference]
	if !ok {
		return m.referenceGone()
	}
	r := el.Rect
	r.X += dx
	r.Y += dy
	return m.setReference(r)
}

func (m *playModel) setReference(r geom.Rect) error {
	el, ok := m.scene.Elements[m.job.Reference]
	if !ok {
		return m.referenceGone()
	}
	el.Rect = r
	m.scene.Elements[m.job.Reference] = el
	return nil
}

func (m *playModel) referenceGone() error {
	return errors.New(errors.ErrCodeNotFound, "reference %q is no longer in the scene", m.job.Reference)
}

func (m *playModel) cyclePlacement(delta int) {
	n := len(geom.Placements)
	i := slices.Index(geom.Placements, m.job.Placement)
	m.job.Placement = geom.Placements[((i+delta)%n+n)%n]
	m.scene.Jobs[0] = m.job
}

func (m *playModel) recompute() {
	hash, err := pipeline.HashScene(m.scene)
	if err == nil {
		m.result, err = m.runner.RunJob(m.ctx, hash, m.job, pipeline.Options{Scene: m.scene})
	}
	m.err = err
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("floatpos play"))
	b.WriteString(StyleDim.Render(" · job " + m.job.ID))
	b.WriteString("\n\n")

	res := &pipeline.Result{}
	if m.err == nil {
		res.Jobs = []pipeline.JobResult{m.result}
	}
	b.WriteString(renderScene(m.scene, res, m.cols))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err))
	} else {
		ref := m.scene.Elements[m.job.Reference].Rect
		fmt.Fprintf(&b, "%s %s %s  %s %s",
			StyleDim.Render("asked"), StyleValue.Render(m.job.Placement.String()),
			StyleDim.Render(iconArrow), StyleSuccess.Render(m.result.Placement.String()),
			StyleDim.Render("at ("+formatCoord(m.result.X)+", "+formatCoord(m.result.Y)+")"))
		fmt.Fprintf(&b, "\n%s %s",
			StyleDim.Render("reference"), StyleValue.Render(ref.String()))
		if mk := markers(m.result); len(mk) > 0 {
			b.WriteString("  " + StyleWarning.Render(strings.Join(mk, " ")))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("←↑↓→ move (step %s)  tab placement  +/- step  r reset  q quit", formatCoord(m.step))))

	return b.String()
}
