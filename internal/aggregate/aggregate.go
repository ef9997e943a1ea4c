// Package aggregate 把单文件统计结果合并为语言级和项目级汇总。
// 合并满足交换律和结合律，所以任何遍历顺序、任何分组方式都得到同一份报告。
package aggregate

import (
	"fmt"
	"sort"

	"countlines/internal/model"
)

// Aggregator 累积 FileTally。
// 不是并发安全的：每个 goroutine 持有自己的实例，最后用 Merge 归并。
type Aggregator struct {
	byLanguage   map[string]*model.LanguageTally
	total        model.LanguageTally
	errorFiles   int64
	unrecognized int64
	errors       []model.FileError
	files        []model.FileTally
	keepFiles    bool
}

// New 创建聚合器，keepFiles 为 true 时保留文件级明细。
func New(keepFiles bool) *Aggregator {
	return &Aggregator{
		byLanguage: make(map[string]*model.LanguageTally),
		keepFiles:  keepFiles,
	}
}

// Add 合并一个文件的统计结果。
//
// 约束说明：
// - FaultIO：没有可用内容，只累加错误计数
// - FaultDecode：已分类的行照常计入语言统计，同时累加错误计数
func (a *Aggregator) Add(tally model.FileTally) {
	if tally.Fault != model.FaultNone {
		a.errorFiles++
		a.errors = append(a.errors, model.FileError{
			Path:  tally.Path,
			Fault: tally.Fault,
			Error: tally.Error,
		})
		if tally.Fault == model.FaultIO {
			return
		}
	}

	a.language(tally.Language).AddFile(tally.Lines)
	a.total.AddFile(tally.Lines)

	if a.keepFiles {
		a.files = append(a.files, tally)
	}
}

// AddUnrecognized 记录一个没有匹配到语言的文件，不算错误。
func (a *Aggregator) AddUnrecognized() {
	a.unrecognized++
}

// AddFailure 记录一个在遍历阶段就失败的路径（例如目录不可读）。
func (a *Aggregator) AddFailure(path string, err error) {
	a.Add(model.FileTally{
		Path:  path,
		Fault: model.FaultIO,
		Error: err.Error(),
	})
}

// Merge 把另一个聚合器的结果并入当前聚合器。
func (a *Aggregator) Merge(other *Aggregator) {
	for name, tally := range other.byLanguage {
		a.language(name).Merge(*tally)
	}
	a.total.Merge(other.total)
	a.errorFiles += other.errorFiles
	a.unrecognized += other.unrecognized
	a.errors = append(a.errors, other.errors...)
	if a.keepFiles {
		a.files = append(a.files, other.files...)
	}
}

// Report 生成排序后的报告快照，不修改聚合器本身。
// 语言按 code 降序、名称升序；错误与文件明细按路径排序。
func (a *Aggregator) Report() model.Report {
	report := model.Report{
		Languages:         make([]model.LanguageTally, 0, len(a.byLanguage)),
		Total:             a.total,
		ErrorFiles:        a.errorFiles,
		UnrecognizedFiles: a.unrecognized,
		Errors:            append([]model.FileError{}, a.errors...),
	}
	report.Total.Language = "Total"

	for _, tally := range a.byLanguage {
		report.Languages = append(report.Languages, *tally)
	}
	sort.Slice(report.Languages, func(i int, j int) bool {
		left, right := report.Languages[i], report.Languages[j]
		if left.Code != right.Code {
			return left.Code > right.Code
		}
		return left.Language < right.Language
	})

	sort.Slice(report.Errors, func(i int, j int) bool {
		return report.Errors[i].Path < report.Errors[j].Path
	})

	if a.keepFiles {
		report.Files = append([]model.FileTally{}, a.files...)
		sort.Slice(report.Files, func(i int, j int) bool {
			return report.Files[i].Path < report.Files[j].Path
		})
	}

	return report
}

// String 便于在日志中输出聚合进度。
func (a *Aggregator) String() string {
	return fmt.Sprintf("files=%d code=%d errors=%d unrecognized=%d", a.total.Files, a.total.Code, a.errorFiles, a.unrecognized)
}

func (a *Aggregator) language(name string) *model.LanguageTally {
	tally, ok := a.byLanguage[name]
	if !ok {
		tally = &model.LanguageTally{Language: name}
		a.byLanguage[name] = tally
	}
	return tally
}
