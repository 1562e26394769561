// Package ddns composes the credential store, the password hasher and the
// DNS provider into the per-request update flow.
package ddns

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ddns53/internal/dns"
	"ddns53/internal/model"
	"ddns53/internal/password"
	"ddns53/internal/resperr"
	"ddns53/internal/store"
)

// maxZoneConcurrency bounds parallel per-zone batches so a request with many
// zones does not trip the provider's rate limits.
const maxZoneConcurrency = 4

// DNSProvider is what the updater needs from the hosted-zone API.
type DNSProvider interface {
	ListPublicZones(ctx context.Context) ([]model.HostedZone, error)
	Apply(ctx context.Context, zoneID string, records []model.RecordChange) error
}

type Updater struct {
	users store.UserStore
	dns   DNSProvider
}

func NewUpdater(users store.UserStore, provider DNSProvider) *Updater {
	return &Updater{users: users, dns: provider}
}

// Update authenticates and authorizes the request, then rewrites the A
// records for every hostname that resolves to a public zone. Authorization
// fails fast: the first hostname outside the user's domain set aborts the
// request before any DNS call. Zones are updated independently; a failed zone
// does not roll back the others.
func (u *Updater) Update(ctx context.Context, req model.UpdateRequest) error {
	user, err := u.users.GetUser(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return resperr.UserNotFound(req.Username)
	}
	if err != nil {
		return resperr.Store(err)
	}

	ok, err := password.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return resperr.Hash(err)
	}
	if !ok {
		return resperr.InvalidCredentials()
	}

	// Exact membership against the provisioned domain strings. This is
	// independent of the zone suffix matching below; a hostname can resolve
	// to a zone and still be rejected here.
	for _, host := range req.Hostnames {
		if !user.HasDomain(host) {
			return resperr.HostnameNotAllowed(host)
		}
	}

	zones, err := u.dns.ListPublicZones(ctx)
	if err != nil {
		return resperr.DNSProvider("", err)
	}

	plans := dns.Resolve(req.Hostnames, req.IP, zones)

	var g errgroup.Group
	g.SetLimit(maxZoneConcurrency)
	for _, plan := range plans {
		g.Go(func() error {
			if err := u.dns.Apply(ctx, plan.ZoneID, plan.Records); err != nil {
				return resperr.DNSProvider(plan.ZoneID, err)
			}
			log.WithFields(log.Fields{
				"username": req.Username,
				"zone":     plan.ZoneID,
				"records":  len(plan.Records),
				"ip":       req.IP.String(),
			}).Info("zone batch applied")
			return nil
		})
	}
	return g.Wait()
}
