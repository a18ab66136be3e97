package angelone

import "net/http"

type header struct {
	key, value string
}

func (s *Session) baseHeaders() []header {
	id := s.cfg.Identity
	return []header{
		{"Content-Type", "application/json"},
		{"Accept", "application/json"},
		{"X-UserType", id.UserType},
		{"X-SourceID", id.SourceID},
		{"X-ClientLocalIP", id.LocalIP},
	}
}

// loginHeaders never carry a bearer token.
func (s *Session) loginHeaders() []header {
	h := s.baseHeaders()
	return append(h,
		header{"X-ClientPublicIP", s.cfg.Identity.PublicIP},
		header{"X-MACAddress", s.cfg.Identity.MACAddress},
		header{"X-PrivateKey", s.creds.APIKey},
	)
}

// authHeaders omit the public IP and add the bearer token once one is held.
func (s *Session) authHeaders() []header {
	h := s.baseHeaders()
	h = append(h,
		header{"X-MACAddress", s.cfg.Identity.MACAddress},
		header{"X-PrivateKey", s.creds.APIKey},
	)
	if jwt := s.JWTToken(); jwt != "" {
		h = append(h, header{"Authorization", "Bearer " + jwt})
	}
	return h
}

func applyHeaders(req *http.Request, headers []header) {
	for _, h := range headers {
		req.Header.Set(h.key, h.value)
	}
}
