package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	log "github.com/sirupsen/logrus"

	"ddns53/internal/model"
	"ddns53/internal/resperr"
)

// Updater runs the authenticated update flow for a parsed request.
type Updater interface {
	Update(ctx context.Context, req model.UpdateRequest) error
}

// UpdateHandler implements the DynDNS-style update endpoint.
type UpdateHandler struct {
	updater Updater
}

func NewUpdateHandler(updater Updater) *UpdateHandler {
	return &UpdateHandler{updater: updater}
}

func (h *UpdateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseUpdateRequest(r)
	if err != nil {
		resperr.Write(w, err)
		return
	}

	if err := h.updater.Update(r.Context(), req); err != nil {
		log.WithFields(log.Fields{
			"username":  req.Username,
			"hostnames": req.Hostnames,
		}).WithError(err).Warn("update rejected")
		resperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "good %s\n", req.IP)
}

// parseUpdateRequest collects every input violation before reporting, so a
// client with a missing header and a bad query sees both at once.
func parseUpdateRequest(r *http.Request) (model.UpdateRequest, error) {
	var req model.UpdateRequest
	var errs resperr.Errors

	req.UserAgent = r.Header.Get("User-Agent")
	if req.UserAgent == "" {
		errs.Add(resperr.MissingHeader("User-Agent"))
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		errs.Add(resperr.MissingHeader("Authorization"))
	} else if username, pass, err := parseBasicAuth(auth); err != nil {
		errs.Add(err)
	} else {
		req.Username = username
		req.Password = pass
	}

	query := r.URL.Query()

	if hostnames, err := flattenHostnames(query["hostname"]); err != nil {
		errs.Add(err)
	} else {
		req.Hostnames = hostnames
	}

	if myip := query.Get("myip"); myip == "" {
		errs.Add(resperr.MissingQuery("myip"))
	} else if ip, err := parseIPv4(myip); err != nil {
		errs.Add(resperr.InvalidQuery("myip", fmt.Sprintf("%q is not a valid IPv4 address", myip)))
	} else {
		req.IP = ip
	}

	return req, errs.Err()
}

// parseBasicAuth decodes "Basic base64(username:password)".
func parseBasicAuth(header string) (username, pass string, err *resperr.Error) {
	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return "", "", resperr.MalformedAuthorization()
	}
	raw, decodeErr := base64.StdEncoding.DecodeString(encoded)
	if decodeErr != nil {
		return "", "", resperr.MalformedAuthorization()
	}
	username, pass, ok = strings.Cut(string(raw), ":")
	if !ok {
		return "", "", resperr.MalformedAuthorization()
	}
	return username, pass, nil
}

// flattenHostnames merges the repeatable hostname parameter, splitting each
// value on commas and discarding empty entries. An exact duplicate anywhere
// in the flattened set rejects the request.
func flattenHostnames(values []string) ([]string, *resperr.Error) {
	var hostnames []string
	for _, value := range values {
		for _, host := range strings.Split(value, ",") {
			if host == "" {
				continue
			}
			for _, seen := range hostnames {
				if seen == host {
					return nil, resperr.InvalidQuery("hostname", fmt.Sprintf("duplicate hostname %q", host))
				}
			}
			hostnames = append(hostnames, host)
		}
	}
	if len(hostnames) == 0 {
		return nil, resperr.MissingQuery("hostname")
	}
	return hostnames, nil
}

func parseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("not an IPv4 address: %s", s)
	}
	return addr, nil
}
