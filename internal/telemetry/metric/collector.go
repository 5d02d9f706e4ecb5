package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports values read at scrape time.
type Collector struct {
	buildInfo *prometheus.Desc
	limiters  *prometheus.Desc
	hashed    *prometheus.Desc

	version   string
	goVersion string

	limiterCount func() int
	codeHashed   func() bool
}

// NewCollector creates a collector. limiterCount and codeHashed may be nil.
func NewCollector(version, goVersion string, limiterCount func() int, codeHashed func() bool) *Collector {
	return &Collector{
		buildInfo: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "build_info"),
			"Build information, value is always 1.",
			[]string{"version", "goversion"}, nil,
		),
		limiters: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "admin", "login_limiters"),
			"Clients currently tracked by the admin login limiter.",
			nil, nil,
		),
		hashed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "admin", "code_hashed"),
			"1 when the admin code is configured as an Argon2id hash.",
			nil, nil,
		),
		version:      version,
		goVersion:    goVersion,
		limiterCount: limiterCount,
		codeHashed:   codeHashed,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.buildInfo
	ch <- c.limiters
	ch <- c.hashed
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.buildInfo, prometheus.GaugeValue, 1, c.version, c.goVersion)

	if c.limiterCount != nil {
		ch <- prometheus.MustNewConstMetric(c.limiters, prometheus.GaugeValue, float64(c.limiterCount()))
	}
	if c.codeHashed != nil {
		v := 0.0
		if c.codeHashed() {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.hashed, prometheus.GaugeValue, v)
	}
}
