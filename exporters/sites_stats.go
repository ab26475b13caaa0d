package exporters

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/alonana/perfshark/core"
)

const summaryName = "__Summary__"

type SitesStats struct {
	totalStats SingleSiteStats
	hostsStats map[string]*SingleSiteStats
}

type SingleSiteStats struct {
	requests                int
	responses               int
	requestsWithoutResponse int
	statusClasses           [6]int
}

func (s *SitesStats) Process(records []core.RequestRecord) {
	if s.hostsStats == nil {
		s.hostsStats = make(map[string]*SingleSiteStats)
	}

	for i := 0; i < len(records); i++ {
		record := &records[i]
		host := getHost(core.StringValue(record.Url))
		hostStats := s.hostsStats[host]
		if hostStats == nil {
			hostStats = &SingleSiteStats{}
			s.hostsStats[host] = hostStats
		}
		s.update(&s.totalStats, record)
		s.update(hostStats, record)
	}
}

func (s *SitesStats) update(stats *SingleSiteStats, record *core.RequestRecord) {
	stats.requests++
	if !record.HasResponse() {
		stats.requestsWithoutResponse++
		return
	}
	stats.responses++
	if record.Status != nil {
		class := *record.Status / 100
		if class >= 1 && class <= 5 {
			stats.statusClasses[class]++
		}
	}
}

func (s *SitesStats) Lines() []string {
	var hosts []string
	for host := range s.hostsStats {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	messages := []string{"Site,Requests,Responses,RequestsWithoutResponse,Status1xx,Status2xx,Status3xx,Status4xx,Status5xx"}
	messages = append(messages, s.printSingle(summaryName, &s.totalStats))
	for _, host := range hosts {
		messages = append(messages, s.printSingle(host, s.hostsStats[host]))
	}
	return messages
}

func (s *SitesStats) printSingle(name string, stats *SingleSiteStats) string {
	return fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v",
		name,
		stats.requests,
		stats.responses,
		stats.requestsWithoutResponse,
		stats.statusClasses[1],
		stats.statusClasses[2],
		stats.statusClasses[3],
		stats.statusClasses[4],
		stats.statusClasses[5],
	)
}

func (s *SitesStats) Save(path string) (string, error) {
	absolute, err := core.SaveToFile(path, []byte(strings.Join(s.Lines(), "\n")+"\n"))
	if err != nil {
		return "", fmt.Errorf("create statistics file failed: %w", err)
	}
	return absolute, nil
}

func getHost(rawUrl string) string {
	parsed, err := url.Parse(rawUrl)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Host
}
