package analysis

import (
	"crossbind/internal/api"
	"crossbind/internal/names"
)

// ConvertEntities advances every input entity with fn, isolating per-entity
// failures: a failed entity becomes an inert Ignored placeholder carrying
// the diagnostic and its reporting context, and sibling entities are
// unaffected.
func ConvertEntities[F api.Phase, T api.Phase](
	in []api.Entity[F],
	out *[]api.Entity[T],
	fn func(api.Entity[F]) (api.Entity[T], error),
) {
	for _, e := range in {
		ctx := e.ErrorContext()
		name := e.Name
		converted, err := fn(e)
		if err != nil {
			*out = append(*out, api.Entity[T]{
				Name:   name,
				Deps:   names.NewSet(),
				Detail: api.Ignored{Err: err, Ctx: ctx},
			})
			continue
		}
		*out = append(*out, converted)
	}
}
