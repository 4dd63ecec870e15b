package headless

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// mobileChecksScript runs the four in-page layout checks. It is
// parameterized on whether touch-target and fixed-bar checks apply to this viewport
// (desktop is exempt from both).
const mobileChecksScript = `
(() => {
  const issues = [];
  let hasOverflow = false;
  if (document.documentElement.scrollWidth > window.innerWidth) {
    hasOverflow = true;
    issues.push('horizontal scrollbar detected');
  }
  if (%[1]t) {
    let smallTargets = 0;
    document.querySelectorAll('a, button, input, select, textarea, [role="button"]').forEach(el => {
      const r = el.getBoundingClientRect();
      if (r.width > 0 && r.height > 0 && (r.width < 44 || r.height < 44)) smallTargets++;
    });
    if (smallTargets > 0) issues.push(smallTargets + ' touch targets smaller than 44x44px');
  }
  let tinyFonts = 0;
  document.querySelectorAll('body *').forEach(el => {
    if (el.children.length > 0) return;
    const text = (el.textContent || '').trim();
    if (!text) return;
    const size = parseFloat(window.getComputedStyle(el).fontSize);
    if (size && size < 12) tinyFonts++;
  });
  if (tinyFonts > 0) issues.push(tinyFonts + ' elements with font size smaller than 12px');
  if (%[2]t) {
    let fixedBars = 0;
    document.querySelectorAll('body *').forEach(el => {
      const style = window.getComputedStyle(el);
      if (style.position === 'fixed') {
        const r = el.getBoundingClientRect();
        if (r.width > window.innerWidth * 0.9) fixedBars++;
      }
    });
    if (fixedBars > 0) issues.push(fixedBars + ' full-width fixed elements');
  }
  return JSON.stringify({ issues: issues, hasOverflow: hasOverflow });
})()
`

type mobileChecksResult struct {
	Issues      []string `json:"issues"`
	HasOverflow bool     `json:"hasOverflow"`
}

// screenshotRef derives the deterministic, collision-resistant filename an
// implementer's screenshot storage would use: project-scoped, per-side, tagged with
// viewport and a millisecond timestamp.
func screenshotRef(dir, side, viewportName string) string {
	return filepath.Join(dir, side, fmt.Sprintf("%s-%d.png", viewportName, time.Now().UnixMilli()))
}

// AuditViewport visits url under the given viewport and evaluates the four
// mobile-responsiveness checks. A failing viewport returns a ViewportResult carrying
// only Viewport and Error; other viewports are unaffected (failure
// handling is enforced by the caller, AuditMobile, which isolates each viewport).
func (a *Auditor) AuditViewport(ctx context.Context, url string, vp model.Viewport, screenshotDir string) model.ViewportResult {
	tabCtx, tabCancel := chromedp.NewContext(a.allocCtx)
	defer tabCancel()

	navCap := time.Duration(a.perfCfg.NavCapMs) * time.Millisecond
	if navCap <= 0 {
		navCap = 30 * time.Second
	}
	navCtx, navCancel := context.WithTimeout(tabCtx, navCap)
	defer navCancel()

	touchAndFixedApply := vp.Name != "desktop"
	script := fmt.Sprintf(mobileChecksScript, touchAndFixedApply, touchAndFixedApply && vp.Name == "mobile")

	var raw string
	var screenshotBuf []byte
	err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(vp.Width, vp.Height, chromedp.EmulateScale(vp.DeviceScaleFactor)),
		chromedp.Navigate(url),
		chromedp.Evaluate(script, &raw),
		chromedp.FullScreenshot(&screenshotBuf, 90),
	)
	if err != nil {
		return model.ViewportResult{Viewport: vp.Name, Error: err.Error(), Issues: []string{}}
	}

	var result mobileChecksResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return model.ViewportResult{Viewport: vp.Name, Error: err.Error(), Issues: []string{}}
	}

	ref := screenshotRef(screenshotDir, "", vp.Name)
	if err := os.MkdirAll(filepath.Dir(ref), 0o755); err != nil {
		a.logger.Warn("failed to create screenshot directory",
			interfaces.Field{Key: "dir", Value: filepath.Dir(ref)}, interfaces.Field{Key: "error", Value: err.Error()})
		ref = ""
	} else if err := os.WriteFile(ref, screenshotBuf, 0o644); err != nil {
		a.logger.Warn("failed to write screenshot",
			interfaces.Field{Key: "path", Value: ref}, interfaces.Field{Key: "error", Value: err.Error()})
		ref = ""
	}

	return model.ViewportResult{
		Viewport:      vp.Name,
		ScreenshotRef: ref,
		Issues:        result.Issues,
		HasOverflow:   result.HasOverflow,
	}
}

// AuditMobile runs AuditViewport across all three fixed viewports for url, isolating
// per-viewport failures, and appends each successful viewport's issues to
// overallIssues in viewport order (an issue found on several viewports appears
// once per viewport).
func (a *Auditor) AuditMobile(ctx context.Context, url string, screenshotDir string) model.MobileTestResult {
	result := model.MobileTestResult{URL: url}
	for _, vp := range model.AllViewports() {
		vr := a.AuditViewport(ctx, url, vp, screenshotDir)
		result.ViewportResults = append(result.ViewportResults, vr)
		if vr.Error != "" {
			a.logger.Warn("mobile viewport audit failed",
				interfaces.Field{Key: "url", Value: url},
				interfaces.Field{Key: "viewport", Value: vp.Name},
				interfaces.Field{Key: "error", Value: vr.Error})
			continue
		}
		result.OverallIssues = append(result.OverallIssues, vr.Issues...)
	}
	result.Responsive = len(result.OverallIssues) == 0
	return result
}
