package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

const (
	tabAll = iota
	tabFavorites
	tabShopping
	tabCount
)

var tabNames = [tabCount]string{"All recipes", "Favorites", "Shopping list"}

type model struct {
	repo       *recipes.Repository
	dbFilename string

	tab      int
	loaded   []recipes.Recipe // Recipes of the current recipe tab, unfiltered
	shopping []string

	recipeCursor   int
	shoppingCursor int

	filtering   bool
	filterInput textinput.Model

	adding   bool
	addInput textinput.Model

	// Confirm dialog for the selected row: a recipe on the recipe tabs, an
	// item on the shopping tab.
	itemDeleting         bool
	itemDeleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	status string
	err    error

	width    int
	height   int
	quitting bool

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(repo *recipes.Repository) model {
	_, file := getDbPragmaList(repo.DB())

	filter := textinput.New()
	filter.Placeholder = "Filter by name"
	filter.Prompt = "/ "
	filter.CharLimit = 128

	add := textinput.New()
	add.Placeholder = "New item"
	add.Prompt = "+ "
	add.CharLimit = 256

	return model{
		repo:        repo,
		dbFilename:  filepath.Base(file),
		tab:         tabAll,
		loaded:      []recipes.Recipe{},
		shopping:    []string{},
		filterInput: filter,
		addInput:    add,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.reload(),
		tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		}),
	)
}

// reload re-queries whatever the current tab shows.
func (m model) reload() tea.Cmd {
	switch m.tab {
	case tabFavorites:
		return loadRecipes(m.repo, true)
	case tabShopping:
		return loadShoppingList(m.repo)
	default:
		return loadRecipes(m.repo, false)
	}
}

// visibleRecipes applies the name filter to the loaded recipes.
func (m model) visibleRecipes() []recipes.Recipe {
	return recipes.FilterRecipesByName(m.loaded, m.filterInput.Value())
}

func (m model) selectedRecipe() (recipes.Recipe, bool) {
	visible := m.visibleRecipes()
	if m.recipeCursor < 0 || m.recipeCursor >= len(visible) {
		return recipes.Recipe{}, false
	}
	return visible[m.recipeCursor], true
}

func (m model) switchTab(tab int) (model, tea.Cmd) {
	m.tab = (tab + tabCount) % tabCount
	m.recipeCursor = 0
	m.shoppingCursor = 0
	m.status = ""
	return m, m.reload()
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		if errors.Is(msg, recipes.ErrRecipeNotFound) || errors.Is(msg, recipes.ErrShoppingListItemNotFound) {
			// Row vanished underneath us; show it and resync.
			return m, m.reload()
		}
		return m, nil

	case recipesMsg:
		if msg.favoritesOnly != (m.tab == tabFavorites) || m.tab == tabShopping {
			// Stale result for a tab we already left.
			return m, nil
		}
		m.loaded = msg.recipes
		if n := len(m.visibleRecipes()); m.recipeCursor >= n {
			m.recipeCursor = max(n-1, 0)
		}
		return m, nil

	case shoppingMsg:
		m.shopping = msg
		if m.shoppingCursor >= len(m.shopping) {
			m.shoppingCursor = max(len(m.shopping)-1, 0)
		}
		return m, nil

	case mutationMsg:
		m.err = nil
		m.status = msg.status
		return m, m.reload()

	case changeMsg:
		return m, m.reload()

	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEnter:
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			case tea.KeyEsc:
				m.filtering = false
				m.filterInput.Blur()
				m.filterInput.Reset()
				m.recipeCursor = 0
				return m, nil
			}

			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.recipeCursor = 0
			return m, cmd
		}

		if m.adding {
			switch msg.Type {
			case tea.KeyEnter:
				item := strings.TrimSpace(m.addInput.Value())
				if err := recipes.ValidateShoppingItem(item); err != nil {
					m.err = err
					return m, nil
				}
				m.adding = false
				m.addInput.Blur()
				m.addInput.Reset()
				return m, addShoppingItem(m.repo, item)
			case tea.KeyEsc:
				m.adding = false
				m.addInput.Blur()
				m.addInput.Reset()
				m.err = nil
				return m, nil
			}

			var cmd tea.Cmd
			m.addInput, cmd = m.addInput.Update(msg)
			return m, cmd
		}

		if m.itemDeleting {
			switch msg.String() {
			case "up", "k":
				m.itemDeleteConfirmIdx = 0
			case "down", "j":
				m.itemDeleteConfirmIdx = 1
			case "enter":
				m.itemDeleting = false
				if m.itemDeleteConfirmIdx != 0 {
					return m, nil
				}
				if m.tab == tabShopping {
					if m.shoppingCursor < len(m.shopping) {
						return m, deleteShoppingItem(m.repo, m.shopping[m.shoppingCursor])
					}
				} else if recipe, ok := m.selectedRecipe(); ok {
					return m, deleteRecipe(m.repo, recipe)
				}
			case "esc":
				m.itemDeleting = false
			}
			return m, nil
		}

		// Root Navigation Mode
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

		case "tab", "right", "l":
			return m.switchTab(m.tab + 1)

		case "shift+tab", "left", "h":
			return m.switchTab(m.tab - 1)

		case "up", "k":
			if m.tab == tabShopping {
				if m.shoppingCursor > 0 {
					m.shoppingCursor--
				}
			} else if m.recipeCursor > 0 {
				m.recipeCursor--
			}
			return m, nil

		case "down", "j":
			if m.tab == tabShopping {
				if m.shoppingCursor < len(m.shopping)-1 {
					m.shoppingCursor++
				}
			} else if m.recipeCursor < len(m.visibleRecipes())-1 {
				m.recipeCursor++
			}
			return m, nil

		case "r":
			m.err = nil
			return m, m.reload()

		case "/":
			if m.tab != tabShopping {
				m.filtering = true
				return m, m.filterInput.Focus()
			}

		case "f":
			if recipe, ok := m.selectedRecipe(); ok && m.tab != tabShopping {
				return m, toggleFavorite(m.repo, recipe)
			}

		case "s":
			if recipe, ok := m.selectedRecipe(); ok && m.tab != tabShopping {
				return m, addIngredients(m.repo, recipe)
			}

		case "a":
			if m.tab == tabShopping {
				m.adding = true
				return m, m.addInput.Focus()
			}

		case "d":
			_, hasRecipe := m.selectedRecipe()
			if (m.tab == tabShopping && len(m.shopping) > 0) || (m.tab != tabShopping && hasRecipe) {
				m.itemDeleteConfirmIdx = 1
				m.itemDeleting = true
			}
			return m, nil
		}

	case time.Time:
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	return m, nil
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Closing the recipe box. Enjoy your meal.\n"
	}

	titleBar := titleStyle.Width(m.width).Render("RecipeBox")

	tabs := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	leftWidth, rightWidth := m.columnWidths()
	bordersAndPaddingWidth := 4
	panelHeight := max(m.height-8, 3)

	var left, right string
	if m.tab == tabShopping {
		left, right = m.shoppingView(leftWidth-bordersAndPaddingWidth), m.shoppingSideView()
	} else {
		left, right = m.recipeListView(leftWidth-bordersAndPaddingWidth), m.recipeSideView(rightWidth-bordersAndPaddingWidth)
	}

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(panelHeight).
		Render(left)
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(panelHeight).
		Render(right)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	var statusLine string
	switch {
	case m.err != nil:
		statusLine = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		statusLine = TextStatusColorize(m.status, 1)
	default:
		statusLine = "Database file: " + TextStatusColorize(m.dbFilename, 1)
	}

	footerText := "tab/←/→ switch • ↑/↓ navigate • / filter • f favorite • s shop ingredients • a add item • d delete • r reload • q quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n" + tabBar + "\n\n" + columns + "\n" + statusLine + "\n" + footerBar
}

func (m model) recipeListView(width int) string {
	var b strings.Builder

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(m.filterInput.View() + "\n\n")
	}

	visible := m.visibleRecipes()
	if len(visible) == 0 {
		switch {
		case m.filterInput.Value() != "":
			b.WriteString("No recipes match the filter.\n")
		case m.tab == tabFavorites:
			b.WriteString("No favorites yet. Press 'f' on a recipe.\n")
		default:
			b.WriteString("No recipes yet.\n")
		}
		return b.String()
	}

	for i, recipe := range visible {
		selected := i == m.recipeCursor
		pointer := generateLinePointer(selected, 2)

		star := "  "
		if recipe.IsFavorite {
			star = favoriteStyle.Render("★ ")
		}

		availableWidth := width - len(pointer) - 2
		name := truncateText(recipe.Name, availableWidth)
		itemStyle := inactiveStyle
		if selected {
			name = m.marqueeText(recipe.Name, availableWidth)
			itemStyle = selectedStyle
		}
		name = lipgloss.NewStyle().MaxWidth(max(availableWidth, 1)).Render(name)

		b.WriteString(pointer + star + itemStyle.Render(name) + "\n")
	}
	return b.String()
}

func (m model) recipeSideView(width int) string {
	recipe, ok := m.selectedRecipe()
	if !m.itemDeleting || !ok {
		return m.recipeDetailView(width)
	}
	return confirmDeleteView("Delete Recipe", recipe.Name,
		"The recipe is removed for good, favorites included.", m.itemDeleteConfirmIdx)
}

func (m model) recipeDetailView(width int) string {
	recipe, ok := m.selectedRecipe()
	if !ok {
		return "Select a recipe to view details."
	}

	var b strings.Builder
	b.WriteString(subtitleStyle.Width(max(width, 1)).Render(recipe.Name) + "\n\n")

	if recipe.IsFavorite {
		b.WriteString(favoriteStyle.Render("★ Favorite") + "\n\n")
	}

	b.WriteString(labelStyle.Render("Ingredients:") + "\n")
	ingredients := recipes.SplitIngredients(recipe.Ingredients)
	if len(ingredients) == 0 {
		b.WriteString("  -\n")
	}
	for _, item := range ingredients {
		b.WriteString("  • " + ingredientStyle.Render(item) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Notes:") + "\n")
	b.WriteString(textStyle.Width(max(width, 1)).Render(recipe.Notes) + "\n")

	if recipe.ImageURI != "" {
		b.WriteString("\n" + labelStyle.Render("Image: ") + truncateText(recipe.ImageURI, width-7) + "\n")
	}
	return b.String()
}

func (m model) shoppingView(width int) string {
	var b strings.Builder

	if m.adding {
		b.WriteString(m.addInput.View() + "\n\n")
	}

	if len(m.shopping) == 0 {
		b.WriteString("Shopping list is empty. Press 'a' to add an item or 's' on a recipe.\n")
		return b.String()
	}

	for i, item := range m.shopping {
		selected := i == m.shoppingCursor
		pointer := generateLinePointer(selected, 2)
		itemStyle := inactiveStyle
		if selected {
			itemStyle = selectedStyle
		}
		b.WriteString(pointer + itemStyle.Render(truncateText(item, width-len(pointer))) + "\n")
	}
	return b.String()
}

func (m model) shoppingSideView() string {
	if !m.itemDeleting || m.shoppingCursor >= len(m.shopping) {
		return fmt.Sprintf("%d items on the list.", len(m.shopping))
	}

	return confirmDeleteView("Delete Item", m.shopping[m.shoppingCursor],
		"Every entry with this exact text is removed.", m.itemDeleteConfirmIdx)
}

// confirmDeleteView renders the Yes/No dialog; confirmIdx 0 selects Yes.
func confirmDeleteView(title, target, note string, confirmIdx int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(title) + "\n\n")
	b.WriteString("Target: " + errorStyle.Render(target) + "\n")
	b.WriteString(note + "\n\n")

	yesOpt, noOpt := "Yes", "No"
	if confirmIdx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	b.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
	b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	return b.String()
}

// Create and start the Bubble Tea TUI. Changes made through the repository
// by other callers are forwarded so the screen re-queries.
func ShowTUI(repo *recipes.Repository) error {
	p := tea.NewProgram(initModel(repo), tea.WithAltScreen())

	unsubscribe := repo.Subscribe(func(c recipes.Change) {
		go p.Send(changeMsg(c))
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
