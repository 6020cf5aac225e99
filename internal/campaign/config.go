// Package campaign holds the simulation parameter set.
//
// Every stochastic decision in the engine is governed by a named value in
// Config. The struct is built once at process start (DefaultConfig plus an
// optional JSON override file) and threaded as an argument into every
// component; nothing reads it as ambient global state.
package campaign

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config is the flat parameter set for one simulation run.
// No field may change once a run has started.
type Config struct {
	// Campaign window and global toggle.
	EnableCampaignEffects bool      `json:"enable_campaign_effects"`
	CampaignStart         time.Time `json:"-"`
	CampaignEnd           time.Time `json:"-"`

	// Campaign impact factor evolution.
	BaseCampaignImpactFactor     float64 `json:"base_campaign_impact_factor"`
	CampaignEngagementMultiplier float64 `json:"campaign_engagement_multiplier"`
	MaxCampaignImpactFactor      float64 `json:"max_campaign_impact_factor"`
	ImpactFatigueOrderCount      int     `json:"impact_fatigue_order_count"`
	ImpactFatigueStep            float64 `json:"impact_fatigue_step"`
	ImpactFatigueFloor           float64 `json:"impact_fatigue_floor"`

	// Purchase decision: baseline.
	NewCustomerBaselineProbability float64 `json:"new_customer_baseline_probability"`
	EnhancedBaselineScale          float64 `json:"enhanced_baseline_scale"`
	MinPurchaseIntervalDays        float64 `json:"min_purchase_interval_days"`
	BaselineProbabilityCap         float64 `json:"baseline_probability_cap"`
	CampaignProbabilityCap         float64 `json:"campaign_probability_cap"`

	// Purchase decision: day-of-week and budget cycle.
	FridayBoost         float64 `json:"friday_boost"`
	MondayDip           float64 `json:"monday_dip"`
	WeekendImpulseBoost float64 `json:"weekend_impulse_boost"`
	PaydayBoostDays     []int   `json:"payday_boost_days"`
	PaydayBoost         float64 `json:"payday_boost"`
	EndOfMonthDay       int     `json:"end_of_month_day"`
	EndOfMonthFactor    float64 `json:"end_of_month_factor"`

	// Purchase decision: satisfaction.
	SatisfactionLowThreshold  float64 `json:"satisfaction_low_threshold"`
	SatisfactionHighThreshold float64 `json:"satisfaction_high_threshold"`
	SatisfactionPenaltyFactor float64 `json:"satisfaction_penalty_factor"`
	SatisfactionBoostFactor   float64 `json:"satisfaction_boost_factor"`

	// Purchase decision: purchase intent.
	ImpulsePurchaseThreshold float64 `json:"impulse_purchase_threshold"`
	PlannedPurchaseThreshold float64 `json:"planned_purchase_threshold"`
	ImpulseOnlyFactor        float64 `json:"impulse_only_factor"`
	PlannedPurchaseFactor    float64 `json:"planned_purchase_factor"`

	// Purchase decision: seasonality and sentiment.
	SeasonalBoostMonths     []int   `json:"seasonal_boost_months"`
	SeasonalBoostFactor     float64 `json:"seasonal_boost_factor"`
	SeasonalLowMonths       []int   `json:"seasonal_low_months"`
	SeasonalLowFactor       float64 `json:"seasonal_low_factor"`
	EconomicSentimentFactor float64 `json:"economic_sentiment_factor"`

	// Purchase decision: price sensitivity and brand loyalty.
	HighPriceSensitivityThreshold float64 `json:"high_price_sensitivity_threshold"`
	LowPriceSensitivityThreshold  float64 `json:"low_price_sensitivity_threshold"`
	PriceSensitiveReductionFactor float64 `json:"price_sensitive_reduction_factor"`
	PriceInsensitiveBoostFactor   float64 `json:"price_insensitive_boost_factor"`
	HighBrandLoyaltyThreshold     float64 `json:"high_brand_loyalty_threshold"`
	LowBrandLoyaltyThreshold      float64 `json:"low_brand_loyalty_threshold"`
	BrandLoyaltyBoostFactor       float64 `json:"brand_loyalty_boost_factor"`
	LowLoyaltyReductionFactor     float64 `json:"low_loyalty_reduction_factor"`

	// Purchase decision: experience and interest dynamics.
	NegativeExperienceWindowDays    int     `json:"negative_experience_window_days"`
	NegativeExperiencePenaltyFactor float64 `json:"negative_experience_penalty_factor"`
	ProductDiscoveryChance          float64 `json:"product_discovery_chance"`
	ProductDiscoveryBoost           float64 `json:"product_discovery_boost"`
	ProductInterestDeclineRate      float64 `json:"product_interest_decline_rate"`
	MinInterestFactor               float64 `json:"min_interest_factor"`

	// Purchase decision: campaign overlay.
	CampaignAggressiveness float64 `json:"campaign_aggressiveness"`
	UrgencyFinalWeekBoost  float64 `json:"urgency_final_week_boost"`
	UrgencyFinalMonthBoost float64 `json:"urgency_final_month_boost"`
	ReactivationDormant    float64 `json:"reactivation_dormant"`
	ReactivationAtRisk     float64 `json:"reactivation_at_risk"`
	PromoDays              []int   `json:"promo_days"`
	PromoDayBoost          float64 `json:"promo_day_boost"`

	// Purchase decision: final safeguards.
	RepeatPurchaseRejectDays        int     `json:"repeat_purchase_reject_days"`
	RepeatPurchaseRejectChance      float64 `json:"repeat_purchase_reject_chance"`
	LowSatisfactionRejectThreshold  float64 `json:"low_satisfaction_reject_threshold"`
	LowSatisfactionRejectChance     float64 `json:"low_satisfaction_reject_chance"`

	// Satisfaction and intent dynamics.
	SatisfactionDecayRate     float64 `json:"satisfaction_decay_rate"`
	SatisfactionRecoveryRate  float64 `json:"satisfaction_recovery_rate"`
	SatisfactionPurchaseBoost float64 `json:"satisfaction_purchase_boost"`
	NegativeExperiencePenalty float64 `json:"negative_experience_penalty"`
	NegativeRecoveryDelayDays int     `json:"negative_recovery_delay_days"`
	PurchaseIntentDecayRate   float64 `json:"purchase_intent_decay_rate"`
	PurchaseIntentBrowseBoost float64 `json:"purchase_intent_browse_boost"`
	DailyBrowseChance         float64 `json:"daily_browse_chance"`
	IntentPurchaseReset       float64 `json:"intent_purchase_reset"`
	IntentPostPurchaseFloor   float64 `json:"intent_post_purchase_floor"`

	// Random experience injection.
	NegativeEventChance    float64 `json:"negative_event_chance"`
	PositiveEventChance    float64 `json:"positive_event_chance"`
	PositiveEventBoost     float64 `json:"positive_event_boost"`
	LoyaltyDriftChance     float64 `json:"loyalty_drift_chance"`
	LoyaltyDriftStep       float64 `json:"loyalty_drift_step"`
	SensitivityDriftChance float64 `json:"sensitivity_drift_chance"`
	SensitivityDriftStep   float64 `json:"sensitivity_drift_step"`

	// Lifecycle classification.
	DormantDays                int     `json:"dormant_days"`
	AtRiskDays                 int     `json:"at_risk_days"`
	AtRiskMaxMonthlyFrequency  float64 `json:"at_risk_max_monthly_frequency"`
	ChampionMinAvgValue        float64 `json:"champion_min_avg_value"`
	ChampionMinMonthlyFreq     float64 `json:"champion_min_monthly_frequency"`

	// Churn.
	BaseChurnProbability           float64 `json:"base_churn_probability"`
	ChurnChampionMultiplier        float64 `json:"churn_champion_multiplier"`
	ChurnActiveMultiplier          float64 `json:"churn_active_multiplier"`
	ChurnAtRiskMultiplier          float64 `json:"churn_at_risk_multiplier"`
	ChurnDormantMultiplier         float64 `json:"churn_dormant_multiplier"`
	ChurnInactivityDays            int     `json:"churn_inactivity_days"`
	MaxChurnProbability            float64 `json:"max_churn_probability"`
	CampaignFatigueChurnMultiplier float64 `json:"campaign_fatigue_churn_multiplier"`
	CampaignFatigueOrderCount      int     `json:"campaign_fatigue_order_count"`
	CampaignFatigueImpactThreshold float64 `json:"campaign_fatigue_impact_threshold"`

	// Order generation.
	DefaultNewCustomerOrderValue float64 `json:"default_new_customer_order_value"`
	MinimumOrderValue            float64 `json:"minimum_order_value"`
	MaximumItemsPerOrder         int     `json:"maximum_items_per_order"`
	ProductPreferenceThreshold   float64 `json:"product_preference_threshold"`
	PreferredPickChance          float64 `json:"preferred_pick_chance"`
	ValueJitterLow               float64 `json:"value_jitter_low"`
	ValueJitterHigh              float64 `json:"value_jitter_high"`
	MaxLineBudgetShare           float64 `json:"max_line_budget_share"`
	CampaignValueMultiplier      float64 `json:"campaign_value_multiplier"`

	// Acquisition.
	AcquisitionBaselineRate   float64 `json:"acquisition_baseline_rate"`
	AcquisitionCampaignRate   float64 `json:"acquisition_campaign_rate"`
	MaxNewCustomerShare       float64 `json:"max_new_customer_share"`
	MaxCustomersPerDay        int     `json:"max_customers_per_day"`
	EarlyCampaignThreshold    float64 `json:"early_campaign_threshold"`
	EarlyCampaignBoost        float64 `json:"early_campaign_boost"`
	LateCampaignThreshold     float64 `json:"late_campaign_threshold"`
	LateCampaignBoost         float64 `json:"late_campaign_boost"`
	WordOfMouthMaxEngagement  float64 `json:"word_of_mouth_max_engagement"`
	WordOfMouthMultiplier     float64 `json:"word_of_mouth_multiplier"`
	SaturationMinFactor       float64 `json:"saturation_min_factor"`
	MaxCustomerLimit          int     `json:"max_customer_limit"`
	WeekendAcquisitionBoost   float64 `json:"weekend_acquisition_boost"`
	BonusAcquisitionChance    float64 `json:"bonus_acquisition_chance"`
	BonusAcquisitionMax       int     `json:"bonus_acquisition_max"`

	// Initial behavioral state for acquired customers.
	InitialSatisfaction     float64 `json:"initial_satisfaction"`
	InitialPurchaseIntent   float64 `json:"initial_purchase_intent"`
	InitialPriceSensitivity float64 `json:"initial_price_sensitivity"`
	InitialBrandLoyalty     float64 `json:"initial_brand_loyalty"`
}

// DefaultConfig returns the parameter set used for the 2025 autumn campaign.
func DefaultConfig() Config {
	return Config{
		EnableCampaignEffects: true,
		CampaignStart:         time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CampaignEnd:           time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),

		BaseCampaignImpactFactor:     1.3,
		CampaignEngagementMultiplier: 0.15,
		MaxCampaignImpactFactor:      2.0,
		ImpactFatigueOrderCount:      8,
		ImpactFatigueStep:            0.02,
		ImpactFatigueFloor:           0.8,

		NewCustomerBaselineProbability: 0.01,
		EnhancedBaselineScale:          0.1,
		MinPurchaseIntervalDays:        7,
		BaselineProbabilityCap:         0.02,
		CampaignProbabilityCap:         0.08,

		FridayBoost:         1.15,
		MondayDip:           0.9,
		WeekendImpulseBoost: 1.1,
		PaydayBoostDays:     []int{1, 15},
		PaydayBoost:         1.25,
		EndOfMonthDay:       25,
		EndOfMonthFactor:    0.85,

		SatisfactionLowThreshold:  0.3,
		SatisfactionHighThreshold: 0.8,
		SatisfactionPenaltyFactor: 0.3,
		SatisfactionBoostFactor:   1.2,

		ImpulsePurchaseThreshold: 0.2,
		PlannedPurchaseThreshold: 0.7,
		ImpulseOnlyFactor:        0.4,
		PlannedPurchaseFactor:    1.3,

		SeasonalBoostMonths:     []int{11, 12, 1, 2},
		SeasonalBoostFactor:     1.15,
		SeasonalLowMonths:       []int{6, 7, 8},
		SeasonalLowFactor:       0.9,
		EconomicSentimentFactor: 1.0,

		HighPriceSensitivityThreshold: 0.7,
		LowPriceSensitivityThreshold:  0.3,
		PriceSensitiveReductionFactor: 0.6,
		PriceInsensitiveBoostFactor:   1.05,
		HighBrandLoyaltyThreshold:     0.8,
		LowBrandLoyaltyThreshold:      0.3,
		BrandLoyaltyBoostFactor:       1.2,
		LowLoyaltyReductionFactor:     0.8,

		NegativeExperienceWindowDays:    14,
		NegativeExperiencePenaltyFactor: 0.4,
		ProductDiscoveryChance:          0.1,
		ProductDiscoveryBoost:           0.3,
		ProductInterestDeclineRate:      0.005,
		MinInterestFactor:               0.7,

		CampaignAggressiveness: 1.5,
		UrgencyFinalWeekBoost:  1.5,
		UrgencyFinalMonthBoost: 1.2,
		ReactivationDormant:    2.0,
		ReactivationAtRisk:     1.5,
		PromoDays:              []int{1, 15},
		PromoDayBoost:          1.3,

		RepeatPurchaseRejectDays:       2,
		RepeatPurchaseRejectChance:     0.95,
		LowSatisfactionRejectThreshold: 0.2,
		LowSatisfactionRejectChance:    0.9,

		SatisfactionDecayRate:     0.02,
		SatisfactionRecoveryRate:  0.05,
		SatisfactionPurchaseBoost: 0.1,
		NegativeExperiencePenalty: 0.3,
		NegativeRecoveryDelayDays: 30,
		PurchaseIntentDecayRate:   0.01,
		PurchaseIntentBrowseBoost: 0.1,
		DailyBrowseChance:         0.15,
		IntentPurchaseReset:       0.3,
		IntentPostPurchaseFloor:   0.1,

		NegativeEventChance:    0.02,
		PositiveEventChance:    0.05,
		PositiveEventBoost:     0.05,
		LoyaltyDriftChance:     0.01,
		LoyaltyDriftStep:       0.1,
		SensitivityDriftChance: 0.005,
		SensitivityDriftStep:   0.05,

		DormantDays:               180,
		AtRiskDays:                90,
		AtRiskMaxMonthlyFrequency: 0.5,
		ChampionMinAvgValue:       50,
		ChampionMinMonthlyFreq:    1.0,

		BaseChurnProbability:           0.001,
		ChurnChampionMultiplier:        0.2,
		ChurnActiveMultiplier:          1.0,
		ChurnAtRiskMultiplier:          3.0,
		ChurnDormantMultiplier:         5.0,
		ChurnInactivityDays:            90,
		MaxChurnProbability:            0.05,
		CampaignFatigueChurnMultiplier: 1.5,
		CampaignFatigueOrderCount:      5,
		CampaignFatigueImpactThreshold: 1.2,

		DefaultNewCustomerOrderValue: 35.0,
		MinimumOrderValue:            5.0,
		MaximumItemsPerOrder:         7,
		ProductPreferenceThreshold:   0.7,
		PreferredPickChance:          0.7,
		ValueJitterLow:               0.8,
		ValueJitterHigh:              1.2,
		MaxLineBudgetShare:           0.6,
		CampaignValueMultiplier:      0.2,

		AcquisitionBaselineRate:  0.001,
		AcquisitionCampaignRate:  0.01,
		MaxNewCustomerShare:      0.05,
		MaxCustomersPerDay:       5,
		EarlyCampaignThreshold:   0.2,
		EarlyCampaignBoost:       2.5,
		LateCampaignThreshold:    0.8,
		LateCampaignBoost:        2.0,
		WordOfMouthMaxEngagement: 5.0,
		WordOfMouthMultiplier:    0.05,
		SaturationMinFactor:      0.5,
		MaxCustomerLimit:         10000,
		WeekendAcquisitionBoost:  1.2,
		BonusAcquisitionChance:   0.3,
		BonusAcquisitionMax:      3,

		InitialSatisfaction:     0.7,
		InitialPurchaseIntent:   0.5,
		InitialPriceSensitivity: 0.5,
		InitialBrandLoyalty:     0.5,
	}
}

// InCampaign reports whether t falls inside the configured campaign window.
// A disabled campaign never reports true.
func (c Config) InCampaign(t time.Time) bool {
	if !c.EnableCampaignEffects {
		return false
	}
	day := t.Truncate(24 * time.Hour)
	return !day.Before(c.CampaignStart) && !day.After(c.CampaignEnd)
}

// CampaignDays returns the campaign length in days.
func (c Config) CampaignDays() int {
	return int(c.CampaignEnd.Sub(c.CampaignStart).Hours() / 24)
}

// dateLayout is the calendar-day form used in override files.
const dateLayout = "2006-01-02"

// UnmarshalJSON decodes a config override. Omitted fields keep whatever
// value the target already holds, so overrides compose with DefaultConfig.
func (c *Config) UnmarshalJSON(data []byte) error {
	type alias Config
	aux := struct {
		*alias
		CampaignStart string `json:"campaign_start"`
		CampaignEnd   string `json:"campaign_end"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.CampaignStart != "" {
		t, err := time.Parse(dateLayout, aux.CampaignStart)
		if err != nil {
			return fmt.Errorf("campaign_start: %w", err)
		}
		c.CampaignStart = t
	}
	if aux.CampaignEnd != "" {
		t, err := time.Parse(dateLayout, aux.CampaignEnd)
		if err != nil {
			return fmt.Errorf("campaign_end: %w", err)
		}
		c.CampaignEnd = t
	}
	return nil
}

// MarshalJSON encodes the config with the campaign window in calendar-day form.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	return json.Marshal(struct {
		alias
		CampaignStart string `json:"campaign_start"`
		CampaignEnd   string `json:"campaign_end"`
	}{
		alias:         alias(c),
		CampaignStart: c.CampaignStart.Format(dateLayout),
		CampaignEnd:   c.CampaignEnd.Format(dateLayout),
	})
}

// Load reads a JSON override file on top of DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects parameter sets that cannot drive a run.
func (c Config) Validate() error {
	if c.CampaignEnd.Before(c.CampaignStart) {
		return fmt.Errorf("campaign_end %s precedes campaign_start %s",
			c.CampaignEnd.Format(dateLayout), c.CampaignStart.Format(dateLayout))
	}
	if c.MaxCampaignImpactFactor < 1.0 {
		return fmt.Errorf("max_campaign_impact_factor must be >= 1.0, got %v", c.MaxCampaignImpactFactor)
	}
	if c.NewCustomerBaselineProbability < 0 || c.NewCustomerBaselineProbability > 1 {
		return fmt.Errorf("new_customer_baseline_probability must be in [0,1], got %v", c.NewCustomerBaselineProbability)
	}
	if c.MaximumItemsPerOrder < 1 {
		return fmt.Errorf("maximum_items_per_order must be >= 1, got %d", c.MaximumItemsPerOrder)
	}
	if c.MinimumOrderValue <= 0 {
		return fmt.Errorf("minimum_order_value must be > 0, got %v", c.MinimumOrderValue)
	}
	if c.MaxCustomersPerDay < 0 {
		return fmt.Errorf("max_customers_per_day must be >= 0, got %d", c.MaxCustomersPerDay)
	}
	if c.MaxCustomerLimit < 1 {
		return fmt.Errorf("max_customer_limit must be >= 1, got %d", c.MaxCustomerLimit)
	}
	return nil
}
