package store

import (
	"context"
	"fmt"

	"github.com/shaiso/latency/internal/domain"
)

// Типы источников телеметрии.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Lister отдаёт полный набор samples. Реализуется repo.SampleRepo.
type Lister interface {
	List(ctx context.Context) ([]domain.Sample, error)
}

// Source описывает, откуда загрузить телеметрию.
type Source struct {
	Kind string

	// Path используется для SourceFile, относительный путь
	// разрешается через ResolvePath.
	Path string

	// Lister используется для SourcePostgres.
	Lister Lister
}

// Load читает все samples из источника и строит Store.
func Load(ctx context.Context, src Source) (*Store, error) {
	var (
		samples []domain.Sample
		err     error
	)

	switch src.Kind {
	case SourceFile, "":
		path, rerr := ResolvePath(src.Path)
		if rerr != nil {
			return nil, rerr
		}
		samples, err = LoadFile(path)

	case SourcePostgres:
		if src.Lister == nil {
			return nil, fmt.Errorf("%w: postgres source without repository", ErrUnknownSource)
		}
		samples, err = src.Lister.List(ctx)
		if err == nil {
			for i, s := range samples {
				if verr := Validate(i, s); verr != nil {
					return nil, verr
				}
			}
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("load %s telemetry: %w", src.kind(), err)
	}
	return New(samples), nil
}

func (s Source) kind() string {
	if s.Kind == "" {
		return SourceFile
	}
	return s.Kind
}
