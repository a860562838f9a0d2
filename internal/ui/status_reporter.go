package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	stageLineTemplateConstant      = "%s: %s\n"
	stageLabelOnlyTemplateConstant = "%s\n"
	bannerSuccessLabelConstant     = "SUCCESS"
	bannerFailureLabelConstant     = "FAILED"
	bannerSeparatorConstant        = "=========="
	bannerTemplateConstant         = "%s %s %s\n"
	bannerDetailTemplateConstant   = "%s %s: %s %s\n"
)

// StatusReporter writes stage outcomes and the final banner to a writer.
type StatusReporter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewStatusReporter constructs a reporter writing to writer; a nil writer discards output.
func NewStatusReporter(writer io.Writer) *StatusReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &StatusReporter{writer: writer}
}

// ReportStage prints a single "LABEL: detail" line.
func (reporter *StatusReporter) ReportStage(label string, detail string) {
	trimmedDetail := strings.TrimSpace(detail)
	if len(trimmedDetail) == 0 {
		reporter.write(fmt.Sprintf(stageLabelOnlyTemplateConstant, label))
		return
	}
	reporter.write(fmt.Sprintf(stageLineTemplateConstant, label, trimmedDetail))
}

// ReportBanner prints the closing SUCCESS or FAILED banner.
func (reporter *StatusReporter) ReportBanner(succeeded bool, detail string) {
	bannerLabel := bannerFailureLabelConstant
	if succeeded {
		bannerLabel = bannerSuccessLabelConstant
	}
	trimmedDetail := strings.TrimSpace(detail)
	if len(trimmedDetail) == 0 {
		reporter.write(fmt.Sprintf(bannerTemplateConstant, bannerSeparatorConstant, bannerLabel, bannerSeparatorConstant))
		return
	}
	reporter.write(fmt.Sprintf(bannerDetailTemplateConstant, bannerSeparatorConstant, bannerLabel, trimmedDetail, bannerSeparatorConstant))
}

func (reporter *StatusReporter) write(line string) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	_, _ = io.WriteString(reporter.writer, line)
}
