package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/cleanup"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/transforms"
	"golang.org/x/exp/maps"
)

const whiteColour = "FFFFFF"

// buildRoutes creates a route record for every route that still has trips
// after service filtering.
func (p *Pipeline) buildRoutes(s *state) error {
	s.routes = map[string]*appdata.Route{}

	routesWithTrips := map[string]bool{}
	for _, trip := range s.schedule.Trips {
		routesWithTrips[strings.TrimSpace(trip.RouteID)] = true
	}

	for _, gtfsRoute := range s.schedule.Routes {
		code := strings.TrimSpace(gtfsRoute.ID)
		if !routesWithTrips[code] {
			log.Debug().Str("route", code).Msg("Route has no trips in the window")
			continue
		}

		routeID, err := routespec.ParseRouteID(code)
		if err != nil {
			return err
		}

		route := &appdata.Route{
			ID:        routeID,
			ShortName: strings.TrimSpace(gtfsRoute.ShortName),
			LongName:  cleanup.RouteLongName(gtfsRoute.LongName),
			Color:     strings.ToUpper(strings.TrimSpace(gtfsRoute.Colour)),
			Code:      code,
		}
		if route.ShortName == "" {
			route.ShortName = code
		}

		if route.Color == "" || route.Color == whiteColour {
			route.Color = ""
			transforms.Transform(route)
		}

		if route.Color == "" && !p.Config.AllowsMissingColour(code) {
			return &routespec.ConfigurationError{Route: code, Reason: "route has no colour"}
		}

		s.routes[code] = route
	}

	return nil
}

func (s *state) routeRecords() []*appdata.Route {
	routes := maps.Values(s.routes)
	slices.SortFunc(routes, func(a, b *appdata.Route) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return routes
}

