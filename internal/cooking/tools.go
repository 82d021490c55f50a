package cooking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Tool names understood by Execute.
const (
	ToolRecipeFinder         = "recipe_finder"
	ToolIngredientSubstitute = "ingredient_substitute"
	ToolPortionCalculator    = "portion_calculator"
	ToolCookingTimer         = "cooking_timer"
	ToolNutritionInfo        = "nutrition_info"
	ToolListIngredients      = "list_ingredients"
)

type Tool struct {
	Name        string
	Description string
}

var tools = []Tool{
	{ToolRecipeFinder, "Tìm công thức nấu ăn dựa trên tên món"},
	{ToolIngredientSubstitute, "Gợi ý các nguyên liệu thay thế"},
	{ToolPortionCalculator, "Tính toán khẩu phần cho số người ăn mong muốn"},
	{ToolCookingTimer, "Xem thông tin thời gian nấu của món ăn"},
	{ToolNutritionInfo, "Xem thông tin dinh dưỡng của món ăn"},
	{ToolListIngredients, "Liệt kê nguyên liệu cần thiết cho một món ăn cụ thể"},
}

var substitutes = map[string]string{
	"bơ":         "bơ thực vật, dầu ô liu, dầu dừa",
	"trứng":      "chuối nghiền, sốt táo (khi nướng bánh), đậu phụ (món mặn)",
	"sữa":        "sữa hạnh nhân, sữa đậu nành, sữa yến mạch",
	"kem":        "kem dừa, kem hạt điều",
	"bột mì":     "bột hạnh nhân, bột dừa, bột yến mạch",
	"đường":      "mật ong, siro phong, cỏ ngọt",
	"nước tương": "nước cốt dừa lên men (coconut aminos), tamari",
	"gạo":        "hạt diêm mạch (quinoa), súp lơ xay",
	"mì ống":     "mì bí ngòi, bí spaghetti",
	"thịt":       "đậu phụ, tempeh, nấm",
	"butter":     "margarine, olive oil, coconut oil",
	"eggs":       "mashed banana, applesauce (in baking), tofu (in savory dishes)",
	"milk":       "almond milk, soy milk, oat milk",
}

var (
	quantity   = regexp.MustCompile(`(\d+\.?\d*)`)
	stepPrefix = regexp.MustCompile(`^\d+\.`)
)

// Toolbox runs the cooking tools against a recipe catalogue.
type Toolbox struct {
	recipes RecipeStore
}

func NewToolbox(recipes RecipeStore) *Toolbox {
	return &Toolbox{recipes: recipes}
}

// Tools lists the available tools in prompt order.
func (t *Toolbox) Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// Execute runs the named tool. Lookup misses and bad input produce a
// user-facing message; only catalogue failures are returned as errors.
func (t *Toolbox) Execute(ctx context.Context, name, input string) (string, error) {
	input = strings.TrimSpace(input)
	switch name {
	case ToolRecipeFinder:
		return t.withRecipe(ctx, input, formatRecipe)
	case ToolIngredientSubstitute:
		return substitute(input), nil
	case ToolPortionCalculator:
		recipeName, servingsText, ok := strings.Cut(input, ",")
		servings, err := strconv.Atoi(strings.TrimSpace(servingsText))
		if !ok || err != nil || servings <= 0 {
			return `Vui lòng cho biết tên món và số người, ví dụ: "Phở bò, 4".`, nil
		}
		return t.withRecipe(ctx, strings.TrimSpace(recipeName), func(r *Recipe) string {
			return scalePortions(r, servings)
		})
	case ToolCookingTimer:
		return t.withRecipe(ctx, input, formatTiming)
	case ToolNutritionInfo:
		return t.withRecipe(ctx, input, formatNutrition)
	case ToolListIngredients:
		return t.withRecipe(ctx, input, func(r *Recipe) string {
			return fmt.Sprintf("Để nấu món %s, bạn cần những nguyên liệu sau:\n%s", input, bulletList(r.Ingredients))
		})
	default:
		return fmt.Sprintf("Không tìm thấy công cụ %s", name), nil
	}
}

func (t *Toolbox) withRecipe(ctx context.Context, name string, render func(*Recipe) string) (string, error) {
	r, err := t.recipes.RecipeByName(ctx, name)
	if errors.Is(err, ErrRecipeNotFound) {
		return fmt.Sprintf("Xin lỗi, tôi không tìm thấy món %s trong cơ sở dữ liệu của mình. Tôi chỉ có thể cung cấp thông tin về các món có trong danh sách.", name), nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup recipe %q: %w", name, err)
	}
	return render(r), nil
}

func formatRecipe(r *Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Đây là công thức nấu món %s:\n\n", r.Name)
	fmt.Fprintf(&sb, "Phong cách: %s\n", r.Cuisine)
	fmt.Fprintf(&sb, "Độ khó: %s\n", r.Difficulty)
	fmt.Fprintf(&sb, "Thời gian chuẩn bị: %d phút\n", r.PrepTime)
	fmt.Fprintf(&sb, "Thời gian nấu: %d phút\n", r.CookTime)
	fmt.Fprintf(&sb, "Phục vụ: %d người\n\n", r.Servings)
	fmt.Fprintf(&sb, "Nguyên liệu cần có:\n%s\n\n", bulletList(r.Ingredients))
	fmt.Fprintf(&sb, "Các bước thực hiện:\n%s", numberedSteps(r.Instructions))
	if r.Tips != "" {
		fmt.Fprintf(&sb, "\n\nMẹo: %s", r.Tips)
	}
	return sb.String()
}

func formatTiming(r *Recipe) string {
	return fmt.Sprintf("Thông tin thời gian nấu món %s:\n\n"+
		"Thời gian chuẩn bị: %d phút\n"+
		"Thời gian nấu: %d phút\n"+
		"Tổng thời gian: %d phút\n\n"+
		"Các bước thực hiện:\n%s",
		r.Name, r.PrepTime, r.CookTime, r.PrepTime+r.CookTime, numberedSteps(r.Instructions))
}

func formatNutrition(r *Recipe) string {
	get := func(key string) string {
		if v, ok := r.Nutrition[key]; ok && v != "" {
			return v
		}
		return "không rõ"
	}
	return fmt.Sprintf("Thông tin dinh dưỡng cho món %s (cho mỗi phần ăn):\n\n"+
		"Calories: %s\n"+
		"Protein: %s\n"+
		"Carbohydrates: %s\n"+
		"Chất béo: %s\n\n"+
		"Món ăn này đủ cho %d người ăn.",
		r.Name, get("calories"), get("protein"), get("carbs"), get("fat"), r.Servings)
}

func substitute(ingredient string) string {
	key := strings.ToLower(ingredient)
	if subs, ok := substitutes[key]; ok {
		return fmt.Sprintf("Để thay thế %s, bạn có thể dùng: %s", key, subs)
	}
	return fmt.Sprintf("Không tìm thấy nguyên liệu thay thế phổ biến cho %s. Hãy thử hỏi theo một chế độ ăn cụ thể.", key)
}

// scalePortions multiplies the first number found in each ingredient by
// servings/r.Servings, rounded to one decimal.
func scalePortions(r *Recipe, servings int) string {
	if r.Servings <= 0 {
		return fmt.Sprintf("Món %s chưa có thông tin khẩu phần gốc nên không thể tính toán.", r.Name)
	}
	multiplier := float64(servings) / float64(r.Servings)

	adjusted := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		m := quantity.FindString(ing)
		if m == "" {
			adjusted = append(adjusted, ing)
			continue
		}
		qty, err := strconv.ParseFloat(m, 64)
		if err != nil {
			adjusted = append(adjusted, ing)
			continue
		}
		scaled := math.Round(qty*multiplier*10) / 10
		adjusted = append(adjusted, strings.ReplaceAll(ing, m, strconv.FormatFloat(scaled, 'f', -1, 64)))
	}

	return fmt.Sprintf("Khẩu phần điều chỉnh cho %d người\nNguyên liệu:\n%s", servings, bulletList(adjusted))
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}

// numberedSteps numbers instructions that are not already numbered.
func numberedSteps(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		if stepPrefix.MatchString(s) {
			lines[i] = s
			continue
		}
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
