package eplite

// Service accessors group the remote procedures by resource. Each service
// wraps an Invoker, so a decorated invoker (retries, dry-run) can stand in
// for the Client.

type GroupsService struct{ Invoker }

type AuthorsService struct{ Invoker }

type SessionsService struct{ Invoker }

type PadsService struct{ Invoker }

func (c *Client) Groups() GroupsService {
	return GroupsService{c}
}

func (c *Client) Authors() AuthorsService {
	return AuthorsService{c}
}

func (c *Client) Sessions() SessionsService {
	return SessionsService{c}
}

func (c *Client) Pads() PadsService {
	return PadsService{c}
}

// Groups returns the group procedures on top of inv.
func Groups(inv Invoker) GroupsService {
	return GroupsService{inv}
}

// Authors returns the author procedures on top of inv.
func Authors(inv Invoker) AuthorsService {
	return AuthorsService{inv}
}

// Sessions returns the session procedures on top of inv.
func Sessions(inv Invoker) SessionsService {
	return SessionsService{inv}
}

// Pads returns the pad and pad content procedures on top of inv.
func Pads(inv Invoker) PadsService {
	return PadsService{inv}
}

// optional returns nil for an empty string so the argument is not sent.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
