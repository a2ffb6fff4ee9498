package main

import (
	"context"
	"fmt"
	"regexp"
	"time"

	digest "github.com/opencontainers/go-digest"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	concurrently "github.com/tejzpr/ordered-concurrently/v3"
)

// Repository names an image repository listed in the registry catalog.
type Repository string

// Tag is a tag name together with the repository it was listed from.
type Tag struct {
	Repo Repository
	Name string
}

// TagDigest is the config digest a tag's manifest resolved to. Digests are
// resolved per tag: two tags sharing an image yield two records.
type TagDigest struct {
	Tag    Tag
	Digest digest.Digest
}

// ImageRecord pairs a resolved digest with the image creation time in Unix
// epoch seconds.
type ImageRecord struct {
	TagDigest
	Created int64
}

// registryClient is the call surface the pipeline needs from the registry.
type registryClient interface {
	Catalog(ctx context.Context) ([]string, error)
	Tags(ctx context.Context, repository string) ([]string, error)
	ConfigDigest(ctx context.Context, repository string, ref string) (digest.Digest, error)
	Created(ctx context.Context, repository string, dgst digest.Digest) (time.Time, error)
	Delete(ctx context.Context, repository string, dgst digest.Digest) error
}

type pruner struct {
	client    registryClient
	retention time.Duration
	dryRun    bool
	match     *regexp.Regexp
	now       func() time.Time
}

func (p *pruner) run(ctx context.Context) error {
	log.Debug().Msg("Collecting repositories")
	names, err := p.client.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("listing repositories: %w", err)
	}
	names = filterRegex(names, p.match)
	slices.Sort(names)

	repos := make([]Repository, 0, len(names))
	for _, name := range names {
		repos = append(repos, Repository(name))
	}

	log.Debug().Int("repositories", len(repos)).Msg("Collecting tags")
	tagLists, err := gather(ctx, repos, p.listTags)
	if err != nil {
		return err
	}

	byRepo := make(map[Repository][]Tag, len(repos))
	for _, tags := range tagLists {
		for _, tag := range tags {
			byRepo[tag.Repo] = append(byRepo[tag.Repo], tag)
		}
	}

	log.Debug().Msg("Filtering repositories to keep")
	var keep []Tag
	for _, repo := range repos {
		tags := byRepo[repo]
		counts := countTags(tags)
		if counts.eligible() {
			log.Debug().
				Str("repository", string(repo)).
				Int("tags", counts.total).
				Int("version_tags", counts.version).
				Int("latest_tags", counts.latest).
				Msg("Repository has free tags, continuing")
			keep = append(keep, tags...)
		} else {
			log.Debug().
				Str("repository", string(repo)).
				Int("tags", counts.total).
				Int("version_tags", counts.version).
				Int("latest_tags", counts.latest).
				Msg("Repository has no free tags, skipping")
		}
	}

	log.Debug().Int("tags", len(keep)).Msg("Collecting digests")
	digests, err := gather(ctx, keep, p.resolveDigest)
	if err != nil {
		return err
	}

	log.Debug().Int("digests", len(digests)).Msg("Collecting blobs")
	records, err := gather(ctx, digests, p.inspectBlob)
	if err != nil {
		return err
	}

	log.Debug().Msg("Filtering tags")
	cutoff := deleteBefore(p.now(), p.retention)
	var deletable []ImageRecord
	for _, record := range records {
		if record.Created < cutoff {
			deletable = append(deletable, record)
		}
	}

	return p.prune(ctx, deletable)
}

func (p *pruner) listTags(ctx context.Context, repo Repository) ([]Tag, error) {
	names, err := p.client.Tags(ctx, string(repo))
	if err != nil {
		return nil, fmt.Errorf("listing tags of %s: %w", repo, err)
	}
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, Tag{Repo: repo, Name: name})
	}
	return tags, nil
}

func (p *pruner) resolveDigest(ctx context.Context, tag Tag) (TagDigest, error) {
	dgst, err := p.client.ConfigDigest(ctx, string(tag.Repo), tag.Name)
	if err != nil {
		return TagDigest{}, fmt.Errorf("resolving %s/%s: %w", tag.Repo, tag.Name, err)
	}
	return TagDigest{Tag: tag, Digest: dgst}, nil
}

func (p *pruner) inspectBlob(ctx context.Context, td TagDigest) (ImageRecord, error) {
	created, err := p.client.Created(ctx, string(td.Tag.Repo), td.Digest)
	if err != nil {
		return ImageRecord{}, fmt.Errorf("inspecting %s@%s: %w", td.Tag.Repo, td.Digest, err)
	}
	return ImageRecord{TagDigest: td, Created: created.Unix()}, nil
}

// prune deletes the given records one at a time, aborting on the first
// failure. Completed deletions are not rolled back. In dry-run mode it only
// reports what would be deleted.
func (p *pruner) prune(ctx context.Context, records []ImageRecord) error {
	if p.dryRun {
		log.Info().Msg("Dry run is enabled. If it were not, the following images would be deleted:")
		for _, record := range records {
			log.Info().Msgf("- %s/%s (Age: %s)", record.Tag.Repo, record.Tag.Name, fmtAge(p.now(), record.Created))
		}
		return nil
	}

	for _, record := range records {
		log.Info().Msgf("Deleting image %s/%s", record.Tag.Repo, record.Tag.Name)
		if err := p.client.Delete(ctx, string(record.Tag.Repo), record.Digest); err != nil {
			return fmt.Errorf("deleting %s@%s: %w", record.Tag.Repo, record.Digest, err)
		}
	}
	return nil
}

type stageTask[I, O any] struct {
	item I
	fn   func(context.Context, I) (O, error)
}

type stageResult[O any] struct {
	out O
	err error
}

// Run implements concurrently.WorkFunction.
func (t stageTask[I, O]) Run(ctx context.Context) any {
	out, err := t.fn(ctx, t.item)
	return stageResult[O]{out: out, err: err}
}

// gather runs fn once per item with every item in flight at once and
// collects the results in input order. Started calls always run to
// completion; a failing sibling does not cancel the others. When any call
// failed, the first failure in input order is returned and the stage's
// output is discarded.
func gather[I, O any](ctx context.Context, items []I, fn func(context.Context, I) (O, error)) ([]O, error) {
	if len(items) == 0 {
		return nil, nil
	}

	input := make(chan concurrently.WorkFunction, len(items))
	output := concurrently.Process(ctx, input, &concurrently.Options{PoolSize: len(items), OutChannelBuffer: len(items)})

	for _, item := range items {
		input <- stageTask[I, O]{item: item, fn: fn}
	}
	close(input)

	outs := make([]O, 0, len(items))
	var firstErr error
	for out := range output {
		result := out.Value.(stageResult[O])
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		outs = append(outs, result.out)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return outs, nil
}
