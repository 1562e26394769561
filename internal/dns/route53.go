// Package dns talks to the hosted-zone provider: listing the public zones,
// routing hostnames to zones, and issuing the batched record upserts.
package dns

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"ddns53/internal/model"
)

const recordTTL = 300

// route53API is the slice of the Route53 client used by Provider, narrowed
// so tests can substitute a fake.
type route53API interface {
	ListHostedZones(ctx context.Context, in *route53.ListHostedZonesInput, opts ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
	ChangeResourceRecordSets(ctx context.Context, in *route53.ChangeResourceRecordSetsInput, opts ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

type Provider struct {
	client route53API
}

func NewProvider(awsCfg aws.Config) *Provider {
	return &Provider{client: route53.NewFromConfig(awsCfg)}
}

// ListPublicZones walks the paginated zone listing to the end and returns
// every non-private zone in the provider's listing order. Zone names are
// normalized without the trailing dot. Results are never cached; every update
// sees the current zone topology.
func (p *Provider) ListPublicZones(ctx context.Context) ([]model.HostedZone, error) {
	var zones []model.HostedZone
	var marker *string

	for {
		out, err := p.client.ListHostedZones(ctx, &route53.ListHostedZonesInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("list hosted zones: %w", err)
		}
		for _, z := range out.HostedZones {
			// A missing config block means a plain public zone.
			if z.Config != nil && z.Config.PrivateZone {
				continue
			}
			zones = append(zones, model.HostedZone{
				ID:   extractZoneID(aws.ToString(z.Id)),
				Name: strings.TrimSuffix(aws.ToString(z.Name), "."),
			})
		}
		if !out.IsTruncated {
			return zones, nil
		}
		marker = out.NextMarker
	}
}

// Apply issues one batched change request for the zone: an UPSERT of a
// single-value A record per hostname, all at a fixed TTL.
func (p *Provider) Apply(ctx context.Context, zoneID string, records []model.RecordChange) error {
	changes := make([]types.Change, 0, len(records))
	for _, rec := range records {
		changes = append(changes, types.Change{
			Action: types.ChangeActionUpsert,
			ResourceRecordSet: &types.ResourceRecordSet{
				Name: aws.String(rec.Hostname),
				Type: types.RRTypeA,
				TTL:  aws.Int64(recordTTL),
				ResourceRecords: []types.ResourceRecord{
					{Value: aws.String(rec.IP.String())},
				},
			},
		})
	}

	_, err := p.client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch:  &types.ChangeBatch{Changes: changes},
	})
	if err != nil {
		return fmt.Errorf("change record sets in zone %s: %w", zoneID, err)
	}
	return nil
}

func extractZoneID(fullID string) string {
	parts := strings.Split(fullID, "/")
	return parts[len(parts)-1]
}
