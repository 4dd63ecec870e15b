package probe

import "github.com/raysh454/siteshift/internal/model"

// longChainThreshold is the redirect-chain length above which a chain is flagged as
// "long" for the redirect analysis report.
const longChainThreshold = 2

// Categorize partitions a batch of ProbeResults into ok/redirect/client-error/
// server-error/network-error buckets and computes the batch's average response time.
func Categorize(results []model.ProbeResult) model.ProbeCategorization {
	var cat model.ProbeCategorization
	var totalMs int64
	var timed int

	for _, r := range results {
		switch {
		case r.StatusCode == 0:
			cat.NetworkErrors = append(cat.NetworkErrors, r)
		case r.StatusCode >= 300 && r.StatusCode < 400:
			cat.Redirects = append(cat.Redirects, r)
		case r.StatusCode >= 400 && r.StatusCode < 500:
			cat.ClientErrors = append(cat.ClientErrors, r)
		case r.StatusCode >= 500:
			cat.ServerErrors = append(cat.ServerErrors, r)
		default:
			cat.OK = append(cat.OK, r)
		}
		if r.StatusCode != 0 {
			totalMs += r.ResponseTimeMs
			timed++
		}
	}
	if timed > 0 {
		cat.AverageResponseMs = float64(totalMs) / float64(timed)
	}
	return cat
}

// BrokenLinks returns the URLs among results whose probe ended in a client error
// (400-499), in the order they appear in results.
func BrokenLinks(results []model.ProbeResult) []string {
	var out []string
	for _, r := range results {
		if r.StatusCode >= 400 && r.StatusCode < 500 {
			out = append(out, r.URL)
		}
	}
	return out
}

// AnalyzeRedirects summarizes redirect-chain shape across a probe batch: counts of
// each redirect-hop status code (301/302/307/308) seen across every chain, the
// length of every observed chain, and the full ProbeResult for chains longer than
// longChainThreshold.
func AnalyzeRedirects(results []model.ProbeResult) model.RedirectAnalysis {
	analysis := model.RedirectAnalysis{CountsByCode: map[int]int{}}
	for _, r := range results {
		if !r.IsRedirect {
			continue
		}
		for _, hop := range r.RedirectChain {
			analysis.CountsByCode[hop.StatusCode]++
		}
		chainLen := len(r.RedirectChain) + 1
		analysis.ChainLengths = append(analysis.ChainLengths, chainLen)
		if chainLen > longChainThreshold {
			analysis.LongChains = append(analysis.LongChains, r)
		}
	}
	return analysis
}
