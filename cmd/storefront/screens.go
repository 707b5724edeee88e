package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"github.com/kmalykh/shop_mobile/internal/api"
	"github.com/kmalykh/shop_mobile/internal/cart"
	"github.com/kmalykh/shop_mobile/internal/catalog"
	"github.com/kmalykh/shop_mobile/internal/checkout"
	"github.com/kmalykh/shop_mobile/internal/logging"
	"github.com/kmalykh/shop_mobile/internal/models"
	"github.com/kmalykh/shop_mobile/internal/profile"
	"github.com/kmalykh/shop_mobile/internal/session"
)

// App is the terminal stand-in for the mobile view layer: one screen per
// command, all state held by the injected stores.
type App struct {
	log      *slog.Logger
	api      *api.Client
	session  *session.Session
	cart     *cart.Store
	profile  *profile.Service
	checkout *checkout.Submitter
	rng      *rand.Rand

	in  io.Reader
	out io.Writer

	// catalog screen state
	products       []models.Product
	categories     []models.Category
	activeCategory string
}

func (a *App) Run() {
	fmt.Fprintln(a.out, "Магазин. Введите help для списка команд.")
	a.activeCategory = catalog.AllCategories

	sc := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !sc.Scan() {
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		ctx := logging.IntoContext(context.Background(), a.log)
		switch cmd {
		case "help":
			a.showHelp()
		case "catalog":
			a.showCatalog(ctx, strings.Join(args, " "))
		case "category":
			a.setCategory(ctx, strings.Join(args, " "))
		case "product":
			a.showProduct(ctx, args)
		case "add":
			a.addToCart(args)
		case "cart":
			a.showCart()
		case "qty":
			a.updateQuantity(args)
		case "remove":
			a.removeFromCart(args)
		case "checkout":
			a.submitOrder(ctx)
		case "login":
			a.login(ctx, args)
		case "register":
			a.register(ctx, args)
		case "logout":
			a.logout()
		case "profile":
			a.showProfile(ctx)
		case "update":
			a.updateProfile(ctx, args)
		case "orders":
			a.showOrders(ctx, args)
		case "exit", "quit":
			return
		default:
			fmt.Fprintf(a.out, "Неизвестная команда: %s\n", cmd)
		}
	}
}

func (a *App) showHelp() {
	fmt.Fprintln(a.out, `Команды:
  catalog [поиск]        список товаров
  category <имя|all>     фильтр по категории
  product <id>           карточка товара
  add <id> [кол-во]      в корзину
  cart                   корзина
  qty <id> <кол-во>      изменить количество
  remove <id>            убрать из корзины
  checkout               оформить заказ
  login <email> <пароль>
  register <логин> <email> <пароль>
  logout
  profile                профиль и отзывы
  update <логин> <email> [тек. пароль] [новый пароль] [повтор]
  orders [страница]      история заказов
  exit`)
}

func (a *App) refreshCatalog(ctx context.Context) error {
	products, err := a.api.GetProducts(ctx)
	if err != nil {
		return err
	}
	categories, err := a.api.GetCategories(ctx)
	if err != nil {
		return err
	}
	a.products = products
	a.categories = categories
	return nil
}

func (a *App) showCatalog(ctx context.Context, query string) {
	if err := a.refreshCatalog(ctx); err != nil {
		a.log.Error("catalog load", "error", err)
		fmt.Fprintln(a.out, "Ошибка загрузки данных")
		return
	}

	names := make([]string, 0, len(a.categories)+1)
	names = append(names, catalog.AllCategories)
	for _, c := range a.categories {
		names = append(names, c.CategoryName)
	}
	fmt.Fprintf(a.out, "Категории: %s (текущая: %s)\n", strings.Join(names, ", "), a.activeCategory)

	for _, p := range catalog.Filter(a.products, a.activeCategory, query) {
		fmt.Fprintf(a.out, "  [%d] %s — %.2f₽ (в наличии: %d, рейтинг %.1f)\n",
			p.ProductID, p.ProductName, p.Price, p.Quantity, p.AverageRating)
	}
}

func (a *App) setCategory(ctx context.Context, name string) {
	if name == "" {
		name = catalog.AllCategories
	}
	a.activeCategory = name
	a.showCatalog(ctx, "")
}

func (a *App) findProduct(id int) *models.Product {
	for i := range a.products {
		if a.products[i].ProductID == id {
			return &a.products[i]
		}
	}
	return nil
}

func (a *App) showProduct(ctx context.Context, args []string) {
	if len(a.products) == 0 {
		if err := a.refreshCatalog(ctx); err != nil {
			a.log.Error("catalog load", "error", err)
			fmt.Fprintln(a.out, "Ошибка загрузки данных")
			return
		}
	}
	id, ok := a.intArg(args, 0)
	if !ok {
		fmt.Fprintln(a.out, "Использование: product <id>")
		return
	}
	p := a.findProduct(id)
	if p == nil {
		fmt.Fprintln(a.out, "Товар не найден")
		return
	}

	fmt.Fprintf(a.out, "%s\n%.2f₽\n%s\n", p.ProductName, p.Price, p.Description)
	fmt.Fprintf(a.out, "Рейтинг %.1f (%d отзывов), в наличии: %d\n", p.AverageRating, p.TotalFeedbacks, p.Quantity)

	reviews, err := a.api.GetProductFeedbacks(ctx, p.ProductID)
	if err != nil {
		a.log.Warn("feedbacks load", "error", err)
	}
	for _, r := range reviews {
		fmt.Fprintf(a.out, "  %d/5: %s\n", r.Rate, r.Content)
	}

	recs := catalog.Recommendations(a.products, p.ProductID, 3, a.rng)
	if len(recs) > 0 {
		fmt.Fprintln(a.out, "С этим товаром смотрят:")
		for _, r := range recs {
			fmt.Fprintf(a.out, "  [%d] %s — %.2f₽\n", r.ProductID, r.ProductName, r.Price)
		}
	}
}

func (a *App) addToCart(args []string) {
	if a.session.Current() == nil {
		fmt.Fprintln(a.out, "Сначала войдите в систему (login)")
		return
	}
	id, ok := a.intArg(args, 0)
	if !ok {
		fmt.Fprintln(a.out, "Использование: add <id> [кол-во]")
		return
	}
	qty, ok := a.intArg(args, 1)
	if !ok {
		qty = 1
	}
	p := a.findProduct(id)
	if p == nil {
		fmt.Fprintln(a.out, "Товар не найден, откройте catalog")
		return
	}
	if p.Quantity < 1 {
		fmt.Fprintln(a.out, "Товара нет в наличии")
		return
	}

	item := models.CartLineItem{
		ProductID:      p.ProductID,
		ProductName:    p.ProductName,
		Price:          p.Price,
		Quantity:       qty,
		MaxQuantity:    p.Quantity,
		CategoryID:     p.CategoryID,
		Description:    p.Description,
		ImagesURL:      p.ImagesURL,
		AverageRating:  p.AverageRating,
		TotalFeedbacks: p.TotalFeedbacks,
	}
	if len(p.ImagesURL) > 0 {
		item.ImageURL = p.ImagesURL[0]
	}
	if err := a.cart.Add(item); err != nil {
		if errors.Is(err, cart.ErrOutOfStock) {
			fmt.Fprintln(a.out, "Товара нет в наличии")
			return
		}
		a.log.Error("cart add", "error", err)
		fmt.Fprintln(a.out, "Ошибка при добавлении в корзину")
		return
	}
	fmt.Fprintln(a.out, "Товар добавлен в корзину")
}

func (a *App) showCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Корзина пуста")
		return
	}
	for _, it := range items {
		fmt.Fprintf(a.out, "  [%d] %s — %.2f₽ x %d (макс. %d)\n",
			it.ProductID, it.ProductName, it.Price, it.Quantity, it.MaxQuantity)
	}
	fmt.Fprintf(a.out, "Итого: %.2f₽\n", a.cart.Total())
}

func (a *App) updateQuantity(args []string) {
	id, ok1 := a.intArg(args, 0)
	n, ok2 := a.intArg(args, 1)
	if !ok1 || !ok2 {
		fmt.Fprintln(a.out, "Использование: qty <id> <кол-во>")
		return
	}
	if err := a.cart.UpdateQuantity(id, n); err != nil {
		a.log.Error("cart update", "error", err)
	}
	a.showCart()
}

func (a *App) removeFromCart(args []string) {
	id, ok := a.intArg(args, 0)
	if !ok {
		fmt.Fprintln(a.out, "Использование: remove <id>")
		return
	}
	if err := a.cart.Remove(id); err != nil {
		a.log.Error("cart remove", "error", err)
	}
	a.showCart()
}

func (a *App) submitOrder(ctx context.Context) {
	order, err := a.checkout.Submit(ctx, a.session.Current())
	if err != nil {
		fmt.Fprintln(a.out, "Не удалось оформить заказ")
		return
	}
	if order == nil {
		// Not signed in or nothing in the cart; the screen simply stays.
		return
	}
	fmt.Fprintf(a.out, "Заказ №%d успешно оформлен!\n", order.OrderID)
}

func (a *App) login(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Использование: login <email> <пароль>")
		return
	}
	user, err := a.session.Login(ctx, args[0], args[1])
	if err != nil {
		fmt.Fprintln(a.out, authErrorMessage(err))
		return
	}
	fmt.Fprintf(a.out, "Здравствуйте, %s!\n", user.Login)
}

func (a *App) register(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(a.out, "Использование: register <логин> <email> <пароль>")
		return
	}
	user, err := a.session.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		fmt.Fprintln(a.out, authErrorMessage(err))
		return
	}
	fmt.Fprintf(a.out, "Добро пожаловать, %s!\n", user.Login)
}

func authErrorMessage(err error) string {
	if errors.Is(err, api.ErrAuth) {
		// The server's own wording follows the sentinel.
		parts := strings.SplitN(err.Error(), ": ", 2)
		return parts[len(parts)-1]
	}
	return "Ошибка сервера"
}

func (a *App) logout() {
	if err := a.session.Logout(); err != nil {
		a.log.Error("logout", "error", err)
	}
	fmt.Fprintln(a.out, "Вы успешно вышли из системы")
}

func (a *App) showProfile(ctx context.Context) {
	user := a.session.Current()
	if user == nil {
		fmt.Fprintln(a.out, "Сначала войдите в систему (login)")
		return
	}
	ov, err := a.profile.Overview(ctx, user.UserID)
	if err != nil {
		a.log.Error("profile load", "error", err)
		fmt.Fprintln(a.out, "Ошибка загрузки данных профиля")
		return
	}
	fmt.Fprintf(a.out, "Логин: %s\nEmail: %s\nРоль: %s\n", ov.User.Login, ov.User.Email, ov.User.RoleName)
	if len(ov.Reviews) > 0 {
		fmt.Fprintln(a.out, "Ваши отзывы:")
		for _, r := range ov.Reviews {
			fmt.Fprintf(a.out, "  %d/5: %s\n", r.Rate, r.Content)
		}
	}
}

func (a *App) updateProfile(ctx context.Context, args []string) {
	user := a.session.Current()
	if user == nil {
		fmt.Fprintln(a.out, "Сначала войдите в систему (login)")
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Использование: update <логин> <email> [тек. пароль] [новый пароль] [повтор]")
		return
	}
	form := profile.UpdateForm{Login: args[0], Email: args[1]}
	if len(args) > 2 {
		form.CurrentPassword = args[2]
	}
	if len(args) > 3 {
		form.NewPassword = args[3]
	}
	if len(args) > 4 {
		form.ConfirmPassword = args[4]
	}

	if errs := profile.ValidateUpdate(form); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintln(a.out, msg)
		}
		return
	}
	if err := a.profile.Update(ctx, user, form); err != nil {
		a.log.Error("profile update", "error", err)
		fmt.Fprintln(a.out, "Ошибка обновления профиля")
		return
	}
	fmt.Fprintln(a.out, "Профиль успешно обновлен")
}

func (a *App) showOrders(ctx context.Context, args []string) {
	user := a.session.Current()
	if user == nil {
		fmt.Fprintln(a.out, "Сначала войдите в систему (login)")
		return
	}
	page, ok := a.intArg(args, 0)
	if !ok {
		page = 1
	}
	orders, err := a.profile.Orders(ctx, user.UserID, page)
	if err != nil {
		a.log.Error("orders load", "error", err)
		fmt.Fprintln(a.out, "Ошибка загрузки заказов")
		return
	}
	if len(orders.Items) == 0 {
		fmt.Fprintln(a.out, "Заказов пока нет")
		return
	}
	for _, o := range orders.Items {
		fmt.Fprintf(a.out, "Заказ №%d от %s — %s%s\x1b[0m, %.2f₽\n",
			o.OrderID, o.Date.Format("02.01.2006"),
			models.StatusColor(o.Status), models.StatusLabel(o.Status), o.Total)
		for _, p := range o.Products {
			fmt.Fprintf(a.out, "  %s x %d — %.2f₽\n", p.ProductName, p.Quantity, p.PriceAtOrder)
		}
	}
	fmt.Fprintf(a.out, "Страница %d из %d\n", orders.Page, orders.TotalPages)
}

func (a *App) intArg(args []string, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, false
	}
	return n, true
}
