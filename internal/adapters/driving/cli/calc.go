package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run a registered calculator",
	Long: `Runs one of the calculator roles registered at startup. Results are
printed as JSON. Use 'almanac providers' to see which roles are available.`,
}

var (
	fsSitting float64
	fsFacing  float64
	fsPeriod  int
	fsVariant string
	fsYear    int
	fsGender  string
)

var calcFlyingStarsCmd = &cobra.Command{
	Use:   "flying-stars",
	Short: "Flying Stars chart for a building",
	Args:  cobra.NoArgs,
	RunE:  runCalcFlyingStars,
}

var calcEightMansionsCmd = &cobra.Command{
	Use:   "eight-mansions",
	Short: "Eight Mansions life gua and directions",
	Args:  cobra.NoArgs,
	RunE:  runCalcEightMansions,
}

var (
	hdBirth birthFlags
	gkBirth birthFlags
)

var calcHumanDesignCmd = &cobra.Command{
	Use:   "hd",
	Short: "Human Design BodyGraph",
	Args:  cobra.NoArgs,
	RunE:  runCalcHumanDesign,
}

var calcGeneKeysCmd = &cobra.Command{
	Use:   "gk",
	Short: "Gene Keys hologenetic profile",
	Args:  cobra.NoArgs,
	RunE:  runCalcGeneKeys,
}

var (
	qmdjDateTime    string
	qmdjZone        string
	qmdjArrangement string
	qmdjSchool      string
)

var calcQMDJCmd = &cobra.Command{
	Use:   "qmdj",
	Short: "Qi Men Dun Jia board",
	Args:  cobra.NoArgs,
	RunE:  runCalcQMDJ,
}

func init() {
	calcFlyingStarsCmd.Flags().Float64Var(&fsSitting, "sitting", 0, "sitting bearing in degrees")
	calcFlyingStarsCmd.Flags().Float64Var(&fsFacing, "facing", 180, "facing bearing in degrees")
	calcFlyingStarsCmd.Flags().IntVar(&fsPeriod, "period", 9, "construction period (1-9)")
	calcFlyingStarsCmd.Flags().StringVar(&fsVariant, "variant", "", "school variant")

	calcEightMansionsCmd.Flags().IntVar(&fsYear, "year", 0, "birth year")
	calcEightMansionsCmd.Flags().StringVar(&fsGender, "gender", string(domain.GenderUnspecified), "female, male or unspecified")
	_ = calcEightMansionsCmd.MarkFlagRequired("year")

	hdBirth.bind(calcHumanDesignCmd)
	gkBirth.bind(calcGeneKeysCmd)

	calcQMDJCmd.Flags().StringVar(&qmdjDateTime, "datetime", "", "local date and time (YYYY-MM-DD HH:MM)")
	calcQMDJCmd.Flags().StringVar(&qmdjZone, "tz", "UTC", "IANA timezone")
	calcQMDJCmd.Flags().StringVar(&qmdjArrangement, "arrangement", string(domain.ArrangementYang), "yang or yin")
	calcQMDJCmd.Flags().StringVar(&qmdjSchool, "school", "", "school name")
	_ = calcQMDJCmd.MarkFlagRequired("datetime")

	calcCmd.AddCommand(calcFlyingStarsCmd)
	calcCmd.AddCommand(calcEightMansionsCmd)
	calcCmd.AddCommand(calcHumanDesignCmd)
	calcCmd.AddCommand(calcGeneKeysCmd)
	calcCmd.AddCommand(calcQMDJCmd)
	rootCmd.AddCommand(calcCmd)
}

func runCalcFlyingStars(cmd *cobra.Command, _ []string) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}
	stars, err := calculatorService.FlyingStars(cmd.Context(), domain.FlyingStarsInput{
		SittingDegrees: fsSitting,
		FacingDegrees:  fsFacing,
		Period:         fsPeriod,
		Variant:        fsVariant,
	})
	if err != nil {
		return fmt.Errorf("flying stars failed: %w", err)
	}
	return printJSON(cmd, stars)
}

func runCalcEightMansions(cmd *cobra.Command, _ []string) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}
	gender := domain.Gender(strings.ToLower(strings.TrimSpace(fsGender)))
	result, err := calculatorService.EightMansions(cmd.Context(), fsYear, gender)
	if err != nil {
		return fmt.Errorf("eight mansions failed: %w", err)
	}
	return printJSON(cmd, result)
}

func runCalcHumanDesign(cmd *cobra.Command, _ []string) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}
	graph, err := calculatorService.BodyGraph(cmd.Context(), hdBirth.query())
	if err != nil {
		return fmt.Errorf("human design failed: %w", err)
	}
	return printJSON(cmd, graph)
}

func runCalcGeneKeys(cmd *cobra.Command, _ []string) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}
	profile, err := calculatorService.GeneKeys(cmd.Context(), gkBirth.query())
	if err != nil {
		return fmt.Errorf("gene keys failed: %w", err)
	}
	return printJSON(cmd, profile)
}

func runCalcQMDJ(cmd *cobra.Command, _ []string) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}
	loc, err := domain.LoadZone(qmdjZone)
	if err != nil {
		return err
	}
	var at time.Time
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if at, err = time.ParseInLocation(layout, strings.TrimSpace(qmdjDateTime), loc); err == nil {
			break
		}
	}
	if err != nil {
		return &domain.ValidationError{Field: "datetime", Message: fmt.Sprintf("invalid local date and time %q", qmdjDateTime)}
	}
	board, err := calculatorService.QMDJBoard(cmd.Context(), domain.QMDJInput{
		DateTime:    at,
		Zone:        qmdjZone,
		Arrangement: domain.QMDJArrangement(strings.ToLower(qmdjArrangement)),
		School:      qmdjSchool,
	})
	if err != nil {
		return fmt.Errorf("qi men board failed: %w", err)
	}
	return printJSON(cmd, board)
}
