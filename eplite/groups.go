package eplite

import "context"

// Pads may belong to a group. Group pads are not public and are only
// reachable through a session for that group.

// Create creates a new group. The ID is returned under "groupID".
func (s GroupsService) Create(ctx context.Context) (Payload, error) {
	return s.Invoke(ctx, "createGroup", POST, nil)
}

// CreateFor maps an application group to an Etherpad group, creating it
// when it does not exist yet. The ID is returned under "groupID".
func (s GroupsService) CreateFor(ctx context.Context, groupMapper string) (Payload, error) {
	args := Args{{Name: "groupMapper", Value: groupMapper}}
	return s.Invoke(ctx, "createGroupIfNotExistsFor", POST, args)
}

// Delete deletes a group and its pads.
func (s GroupsService) Delete(ctx context.Context, groupID string) error {
	args := Args{{Name: "groupID", Value: groupID}}
	_, err := s.Invoke(ctx, "deleteGroup", POST, args)
	return err
}

// ListPads lists the pads of a group under "padIDs".
func (s GroupsService) ListPads(ctx context.Context, groupID string) (Payload, error) {
	args := Args{{Name: "groupID", Value: groupID}}
	return s.Invoke(ctx, "listPads", GET, args)
}

// CreatePad creates the pad padName in a group. text is the initial
// content; when empty the server default is used.
func (s GroupsService) CreatePad(ctx context.Context, groupID, padName, text string) error {
	args := Args{
		{Name: "groupID", Value: groupID},
		{Name: "padName", Value: padName},
		{Name: "text", Value: optional(text)},
	}
	_, err := s.Invoke(ctx, "createGroupPad", POST, args)
	return err
}
