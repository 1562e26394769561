package dns

import (
	"net/netip"
	"strings"

	"ddns53/internal/model"
)

// Resolve routes each hostname to the first zone in listing order whose name
// is a suffix of the hostname, and groups the resulting record changes by
// zone. First match wins even when a more specific zone appears later in the
// listing; that ordering is part of the observable behavior and must not be
// "improved" to longest-suffix. A hostname matching no zone is silently left
// out of the plan.
func Resolve(hostnames []string, ip netip.Addr, zones []model.HostedZone) []model.ZonePlan {
	var plans []model.ZonePlan
	index := make(map[string]int)

	for _, host := range hostnames {
		for _, zone := range zones {
			if !strings.HasSuffix(host, zone.Name) {
				continue
			}
			i, ok := index[zone.ID]
			if !ok {
				i = len(plans)
				index[zone.ID] = i
				plans = append(plans, model.ZonePlan{ZoneID: zone.ID})
			}
			plans[i].Records = append(plans[i].Records, model.RecordChange{Hostname: host, IP: ip})
			break
		}
	}
	return plans
}
