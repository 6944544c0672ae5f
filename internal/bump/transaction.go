// Package bump implements the Bump Transaction (C8): the state machine
// sequencing pre-hook -> changelog write -> commit -> tag -> post-hook,
// with stash-based rollback when a pre-hook fails (§4.8).
package bump

import (
	"fmt"
	"time"

	"github.com/frgrisk/cog/internal/changelog"
	"github.com/frgrisk/cog/internal/conventional"
	"github.com/frgrisk/cog/internal/gitrepo"
	"github.com/frgrisk/cog/internal/hook"
	"github.com/frgrisk/cog/internal/logx"
	"github.com/frgrisk/cog/internal/rangeresolve"
	"github.com/frgrisk/cog/internal/version"
)

// Input is the version-engine output the transaction composes with the
// facade's write operations (C5/C7 feed this, C8 executes it).
type Input struct {
	NewVersion   version.SemVer
	NewTag       version.Tag // Tag.Format(separator) == TagName
	Increment    version.Increment
	HadPrior     bool
	PriorVersion version.SemVer
	PriorTag     version.Tag
	Commits      []conventional.Commit
	Package      string
	TagName      string // fully formatted, e.g. "v1.2.0" or "api-1.2.0"
}

// Options configures the transaction's ambient behavior.
type Options struct {
	Renderer          *changelog.Renderer
	ChangelogPath     string
	DisableChangelog  bool
	DisableBumpCommit bool
	SkipCI            string
	SkipUntracked     bool
	Sign              bool
	AnnotatedTemplate string // "" means lightweight tag
	PreHooks          []string
	PostHooks         []string
	Hooks             hook.Runner
	RemoteCtx         changelog.RemoteContext
	Authors           *changelog.AuthorResolver
	Provider          changelog.ExternalProvider
	Registry          *conventional.Registry
	AuthorName        string
	AuthorEmail       string
	DryRun            bool
}

// Result reports what the transaction actually did.
type Result struct {
	Version        version.SemVer
	Tag            string
	CommitOid      string
	ChangelogEntry string
	PostHookErr    error // set when a post-hook failed; tag still stands
}

// Run executes the state machine. A PRE_HOOK failure pushes a stash and
// returns a *HookFailureError without committing or tagging. A
// POST_HOOK failure is returned embedded in Result.PostHookErr alongside
// a nil top-level error, since the tag is already created by that point.
func Run(f *gitrepo.Facade, in Input, opts Options) (Result, error) {
	if err := precheck(f, opts); err != nil {
		return Result{}, err
	}

	vars := hook.Vars{
		HasLatest: in.HadPrior,
		Latest:    in.PriorVersion,
		Version:   in.NewVersion,
		Package:   in.Package,
	}

	if err := runHookStage(f, "pre", opts.PreHooks, vars, opts.Hooks, in); err != nil {
		return Result{}, err
	}

	// For --disable-bump-commit the tagged tip is the existing HEAD, whose
	// committer date is already fixed; resolve it now so renderChangelog
	// can date the release by it instead of wall-clock time (§8.5). When a
	// bump commit is being created, the commit doesn't exist yet, so its
	// committer date really is "now" and targetOid stays empty.
	var targetOid string
	if opts.DisableBumpCommit {
		oid, err := f.Head()
		if err != nil {
			return Result{}, err
		}
		targetOid = oid
	}

	var entry string
	if !opts.DisableChangelog && opts.Renderer != nil {
		rendered, err := renderChangelog(f, in, opts, targetOid)
		if err != nil {
			return Result{}, err
		}
		entry = rendered
		if !opts.DryRun {
			if err := changelog.SpliceFile(opts.ChangelogPath, rendered); err != nil {
				return Result{}, err
			}
		}
	}

	commitOid := ""
	if opts.DryRun {
		return Result{Version: in.NewVersion, Tag: in.TagName, ChangelogEntry: entry}, nil
	}

	if !opts.DisableBumpCommit {
		if err := f.AddAll(); err != nil {
			return Result{}, err
		}
		message := commitMessage(in.TagName, opts.SkipCI)
		oid, err := f.Commit(gitrepo.CommitOpts{
			Message:    message,
			AuthorName: opts.AuthorName,
			AuthorMail: opts.AuthorEmail,
			Sign:       opts.Sign,
		})
		if err != nil {
			return Result{}, err
		}
		commitOid = oid
	} else {
		commitOid = targetOid
	}

	if err := tag(f, in, opts, commitOid, vars); err != nil {
		return Result{}, err
	}

	result := Result{Version: in.NewVersion, Tag: in.TagName, CommitOid: commitOid, ChangelogEntry: entry}

	if err := runHookStage(f, "post", opts.PostHooks, vars, opts.Hooks, in); err != nil {
		logx.Warnf("post-bump hook failed (tag already created): %v", err)
		result.PostHookErr = err
	}

	return result, nil
}

func precheck(f *gitrepo.Facade, opts Options) error {
	status, err := f.WorkingTreeStatus()
	if err != nil {
		return err
	}
	if status.Dirty {
		if status.OnlyUntracked && opts.SkipUntracked {
			logx.Warnf("working tree has untracked files, continuing due to --skip-untracked")
		} else {
			return &DirtyWorkingTreeError{}
		}
	}
	return nil
}

func runHookStage(f *gitrepo.Facade, stage string, commands []string, vars hook.Vars, runner hook.Runner, in Input) error {
	if runner == nil {
		return nil
	}
	for _, command := range commands {
		expanded := hook.Substitute(command, vars)
		code, err := runner.Run(expanded, nil)
		if err != nil {
			return fmt.Errorf("bump: running %s hook: %w", stage, err)
		}
		if code != 0 {
			if stage == "pre" {
				stashRef := "cog_bump_" + in.NewVersion.String()
				if stashErr := f.StashPush(stashRef); stashErr != nil {
					logx.Errorf("failed to stash after pre-hook failure: %v", stashErr)
				}
				return &HookFailureError{Stage: stage, Command: command, ExitCode: code, StashRef: stashRef}
			}
			return &HookFailureError{Stage: stage, Command: command, ExitCode: code}
		}
	}
	return nil
}

func renderChangelog(f *gitrepo.Facade, in Input, opts Options, targetOid string) (string, error) {
	target := rangeresolve.Tag(in.NewTag, in.TagName)
	var previous *rangeresolve.OidOf
	if in.HadPrior {
		p := rangeresolve.Tag(in.PriorTag, in.PriorTag.Oid)
		previous = &p
	}

	releaseDate := time.Now()
	if targetOid != "" {
		if d, err := f.CommitterDate(targetOid); err == nil {
			releaseDate = d
		}
	}

	rel := changelog.Build(opts.Registry, in.Commits, target, previous, releaseDate, changelog.BuildOptions{
		Package:  in.Package,
		Authors:  opts.Authors,
		Provider: opts.Provider,
	})

	return opts.Renderer.Render(rel, opts.RemoteCtx)
}

func commitMessage(tagName, skipCI string) string {
	msg := fmt.Sprintf("chore(version): %s", tagName)
	if skipCI != "" {
		msg += " " + skipCI
	}
	return msg
}

func tag(f *gitrepo.Facade, in Input, opts Options, commitOid string, vars hook.Vars) error {
	var annotated *gitrepo.AnnotatedTagOpts
	if opts.AnnotatedTemplate != "" {
		annotated = &gitrepo.AnnotatedTagOpts{
			Message: hook.Substitute(opts.AnnotatedTemplate, vars),
			Name:    opts.AuthorName,
			Email:   opts.AuthorEmail,
		}
	}
	return f.CreateTag(in.TagName, commitOid, annotated)
}
