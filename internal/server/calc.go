package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/salat/internal/geomath"
	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
	"github.com/smokyabdulrahman/salat/internal/qibla"
)

type methodResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	FajrAngle    float64 `json:"fajr_angle"`
	IshaAngle    float64 `json:"isha_angle,omitempty"`
	IshaInterval int     `json:"isha_interval,omitempty"`
	MaghribAngle float64 `json:"maghrib_angle,omitempty"`
}

func toMethodResponse(m prayer.Method) methodResponse {
	return methodResponse{
		ID:           m.ID,
		Name:         m.Name,
		FajrAngle:    m.FajrAngle,
		IshaAngle:    m.IshaAngle,
		IshaInterval: m.IshaInterval,
		MaghribAngle: m.MaghribAngle,
	}
}

type timingsResponse struct {
	Date     string               `json:"date"`
	Timezone string               `json:"timezone"`
	Location geomath.Coordinate   `json:"location"`
	Method   methodResponse       `json:"method"`
	Madhab   string               `json:"madhab"`
	Timings  map[string]time.Time `json:"timings"`
	Hijri    hijri.Date           `json:"hijri"`
	Current  string               `json:"current,omitempty"`
	Next     string               `json:"next,omitempty"`
}

// params resolves ?method and ?madhab on top of the server defaults.
func (s *Server) params(c *gin.Context) (prayer.CalculationParameters, prayer.Method, error) {
	p := s.defaults
	id, err := queryInt(c, "method", p.Method)
	if err != nil {
		return p, prayer.Method{}, err
	}
	m, err := prayer.MethodByID(id)
	if err != nil {
		return p, m, err
	}
	if id != p.Method {
		madhab, offsets := p.Madhab, p.Offsets
		p = m.Params()
		p.Madhab, p.Offsets = madhab, offsets
	}
	if raw := c.Query("madhab"); raw != "" {
		if p.Madhab, err = prayer.ParseMadhab(raw); err != nil {
			return p, m, err
		}
	}
	return p, m, nil
}

func (s *Server) getTimings(c *gin.Context) {
	coord, err := requireCoordinate(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	loc, err := queryLocation(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	now := s.now()
	date, err := queryDate(c, "date", loc, now)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	params, method, err := s.params(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	day, err := prayer.ComputeDay(date, coord, params)
	switch {
	case errors.Is(err, prayer.ErrDegenerateLatitude), errors.Is(err, prayer.ErrOutOfOrder):
		abort(c, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		abort(c, http.StatusBadRequest, err)
		return
	}

	timings := make(map[string]time.Time, len(prayer.AllPrayerNames))
	for _, name := range prayer.AllPrayerNames {
		t, _ := day.Time(name)
		timings[name] = t
	}

	resp := timingsResponse{
		Date:     date.Format(dateLayout),
		Timezone: loc.String(),
		Location: coord,
		Method:   toMethodResponse(method),
		Madhab:   params.Madhab.String(),
		Timings:  timings,
		Hijri:    hijri.ToHijri(date),
	}
	// Current and next only make sense for today.
	if sameDay(date, now.In(loc)) {
		if cur := day.Current(now); cur != nil {
			resp.Current = cur.Name
		}
		if next := day.Next(now); next != nil {
			resp.Next = next.Name
		}
	}
	c.JSON(http.StatusOK, resp)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s *Server) getMethods(c *gin.Context) {
	methods := prayer.Methods()
	out := make([]methodResponse, len(methods))
	for i, m := range methods {
		out[i] = toMethodResponse(m)
	}
	c.JSON(http.StatusOK, out)
}

type qiblaResponse struct {
	qibla.Result
	Heading   *float64         `json:"heading,omitempty"`
	Direction *qibla.Direction `json:"direction,omitempty"`
	Rotation  *float64         `json:"rotation,omitempty"`
}

func (s *Server) getQibla(c *gin.Context) {
	coord, err := requireCoordinate(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	res, err := qibla.Calculate(coord)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	resp := qiblaResponse{Result: res}
	heading, ok, err := queryFloat(c, "heading")
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if ok {
		h := geomath.Normalize360(heading)
		dir := qibla.RelativeDirection(res.Bearing, h)
		rot := qibla.Rotation(res.Bearing, h)
		resp.Heading, resp.Direction, resp.Rotation = &h, &dir, &rot
	}
	c.JSON(http.StatusOK, resp)
}

type hijriResponse struct {
	hijri.Date
	Formatted      string             `json:"formatted"`
	LocalMonthName string             `json:"local_month_name"`
	Gregorian      string             `json:"gregorian"`
	Observances    []hijri.Observance `json:"observances"`
}

func (s *Server) getHijri(c *gin.Context) {
	date, err := queryDate(c, "date", time.UTC, s.now())
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	adj, err := queryInt(c, "adjustment", 0)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	d := hijri.Adjust(date, adj)
	obs := hijri.On(date.AddDate(0, 0, adj))
	if obs == nil {
		obs = []hijri.Observance{}
	}
	c.JSON(http.StatusOK, hijriResponse{
		Date:           d,
		Formatted:      d.Format(),
		LocalMonthName: d.LocalMonthName(),
		Gregorian:      date.Format(dateLayout),
		Observances:    obs,
	})
}

const maxObservances = 100

func (s *Server) getObservances(c *gin.Context) {
	from, err := queryDate(c, "from", time.UTC, s.now())
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if limit < 1 || limit > maxObservances {
		abort(c, http.StatusBadRequest, errors.New("limit must be between 1 and 100"))
		return
	}
	c.JSON(http.StatusOK, hijri.Upcoming(from, limit))
}
