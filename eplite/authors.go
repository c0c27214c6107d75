package eplite

import "context"

// Create creates a new author, optionally named. The ID is returned
// under "authorID".
func (s AuthorsService) Create(ctx context.Context, name string) (Payload, error) {
	args := Args{{Name: "name", Value: optional(name)}}
	return s.Invoke(ctx, "createAuthor", POST, args)
}

// CreateFor maps an application user to an Etherpad author, creating it
// when it does not exist yet. The ID is returned under "authorID".
func (s AuthorsService) CreateFor(ctx context.Context, authorMapper, name string) (Payload, error) {
	args := Args{
		{Name: "authorMapper", Value: authorMapper},
		{Name: "name", Value: optional(name)},
	}
	return s.Invoke(ctx, "createAuthorIfNotExistsFor", POST, args)
}

// ListPads lists the pads an author contributed to under "padIDs".
func (s AuthorsService) ListPads(ctx context.Context, authorID string) (Payload, error) {
	args := Args{{Name: "authorID", Value: authorID}}
	return s.Invoke(ctx, "listPadsOfAuthor", GET, args)
}

// OfPad lists the authors who contributed to a pad under "authorIDs".
func (s AuthorsService) OfPad(ctx context.Context, padID string) (Payload, error) {
	args := Args{{Name: "padID", Value: padID}}
	return s.Invoke(ctx, "listAuthorsOfPad", GET, args)
}
