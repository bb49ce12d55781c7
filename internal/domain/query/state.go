package query

// Stage 流水线阶段
type Stage string

// 阶段常量，顺序固定：classify -> retrieve -> synthesize -> format
const (
	StageClassify   Stage = "classify"
	StageRetrieve   Stage = "retrieve"
	StageSynthesize Stage = "synthesize"
	StageFormat     Stage = "format"
)

// PipelineState 单次流水线运行的累加状态
// 每个字段只由一个阶段写入，后续阶段只读
type PipelineState struct {
	Query string // 有效查询（可能被改写）

	Category          Category            // classify 写入
	Documents         []RetrievedDocument // retrieve 写入（未截断）
	SynthesizedText   string              // synthesize 写入
	FormattedResponse string              // format 写入

	completed []Stage
}

// NewPipelineState 为一次运行创建新状态
func NewPipelineState(query string) *PipelineState {
	return &PipelineState{Query: query}
}

// MarkCompleted 记录阶段完成
func (s *PipelineState) MarkCompleted(stage Stage) {
	s.completed = append(s.completed, stage)
}

// Completed 已完成的阶段（按执行顺序）
func (s *PipelineState) Completed() []Stage {
	out := make([]Stage, len(s.completed))
	copy(out, s.completed)
	return out
}
