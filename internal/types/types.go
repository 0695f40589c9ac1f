// Package types defines the wire-level request and response shapes.
package types

// PredictResponse is the scoring response. AdjustedRiskPercentage is null
// whenever no prevalence adjustment was computed, and RiskPercentage then
// repeats the raw value.
type PredictResponse struct {
	RiskPercentage         float64            `json:"riskPercentage"`
	RawRiskPercentage      float64            `json:"rawRiskPercentage"`
	AdjustedRiskPercentage *float64           `json:"adjustedRiskPercentage"`
	AdjustedForPrevalence  bool               `json:"adjustedForPrevalence"`
	PriorTraining          float64            `json:"priorTraining"`
	PriorDeployment        *float64           `json:"priorDeployment"`
	InputsUsed             map[string]float64 `json:"inputsUsed"`
	RequestID              string             `json:"requestId,omitempty"`
}

// MetaResponse describes the deployed model version.
type MetaResponse struct {
	FeatureOrder       []string          `json:"featureOrder"`
	NumericCols        []string          `json:"numericCols"`
	BinaryCols         []string          `json:"binaryCols"`
	BinaryMeaning      map[string]string `json:"binaryMeaning"`
	Target             string            `json:"target"`
	CalibrationMethod  string            `json:"calibrationMethod"`
	ModelFamily        string            `json:"modelFamily"`
	TrainingDataSource string            `json:"trainingDataSource"`
	PriorTraining      float64           `json:"priorTraining"`
	PriorDeployment    *float64          `json:"priorDeployment"`
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
